package ethernet

// Frame is an Ethernet II frame represented as structured fields rather
// than a wire-format byte buffer. Framing and checksum handling belong to
// the link underneath; components exchange Frame values directly, so no
// marshal/unmarshal step exists here. Payload holds the decoded upper-layer
// value appropriate to EtherType (an arp.Message for TypeARP, an
// ipv4.Datagram for TypeIPv4), not a wire encoding. See [IEEE 802.3].
//
// [IEEE 802.3]: https://standards.ieee.org/ieee/802.3/7071/
type Frame struct {
	Destination Addr
	Source      Addr
	EtherType   Type
	Payload     any
}

// IsBroadcast reports whether the frame is addressed to every station.
func (f Frame) IsBroadcast() bool { return f.Destination.IsBroadcast() }
