// Package arp implements the Address Resolution Protocol message shape for
// IPv4-over-Ethernet, as used by a NetworkInterface to resolve a next hop's
// IPv4 address to its hardware address.
package arp

import (
	"github.com/soypat/minnow/ethernet"
	"github.com/soypat/minnow/ipv4"
)

// Message is an ARP packet for the Ethernet/IPv4 pair (hardware type 1,
// protocol type 0x0800), represented as structured fields. Wire encoding is
// out of scope; components exchange Message values directly.
type Message struct {
	Operation   Operation
	SenderHW    ethernet.Addr
	SenderProto ipv4.Addr
	TargetHW    ethernet.Addr
	TargetProto ipv4.Addr
}

// NewRequest builds an ARP request asking who has targetProto, sent from
// senderHW/senderProto. TargetHW is left zero, as the sender doesn't know it.
func NewRequest(senderHW ethernet.Addr, senderProto ipv4.Addr, targetProto ipv4.Addr) Message {
	return Message{
		Operation:   OpRequest,
		SenderHW:    senderHW,
		SenderProto: senderProto,
		TargetProto: targetProto,
	}
}

// Reply builds the reply to a request, with my hardware address myHW
// substituted for the unknown target hardware address.
func (m Message) Reply(myHW ethernet.Addr) Message {
	return Message{
		Operation:   OpReply,
		SenderHW:    myHW,
		SenderProto: m.TargetProto,
		TargetHW:    m.SenderHW,
		TargetProto: m.SenderProto,
	}
}

// IsRequestFor reports whether m is a request asking about addr.
func (m Message) IsRequestFor(addr ipv4.Addr) bool {
	return m.Operation == OpRequest && m.TargetProto == addr
}
