// Package netiface implements a simulated network interface: it resolves
// IPv4 next hops to Ethernet addresses via ARP, queuing datagrams while a
// resolution is pending, and hands fully-formed frames to a caller-supplied
// transmit function.
package netiface

import (
	"log/slog"

	"github.com/soypat/minnow/arp"
	"github.com/soypat/minnow/ethernet"
	"github.com/soypat/minnow/internal"
	"github.com/soypat/minnow/ipv4"
)

const (
	arpCacheTTLMS   = 30000
	arpRequestTTLMS = 5000
)

// cachedMAC is an ARP cache entry.
type cachedMAC struct {
	mac ethernet.Addr
}

// Interface simulates one network interface: its own hardware/IP address,
// an ARP cache, in-flight ARP requests, and per-next-hop datagram queues
// awaiting resolution.
type Interface struct {
	internal.Logger

	hwAddr ethernet.Addr
	ipAddr ipv4.Addr

	cache        internal.AgingMap[uint32, cachedMAC]
	pendingARP   internal.AgingMap[uint32, struct{}]
	pendingQueue map[uint32][]ipv4.Datagram

	received []ipv4.Datagram

	Transmit func(ethernet.Frame)
}

// New returns an Interface with the given hardware and IPv4 address. transmit
// is called for every outbound frame (ARP requests/replies and IPv4 frames).
func New(hwAddr ethernet.Addr, ipAddr ipv4.Addr, transmit func(ethernet.Frame)) *Interface {
	iface := &Interface{
		hwAddr:       hwAddr,
		ipAddr:       ipAddr,
		cache:        internal.NewAgingMap[uint32, cachedMAC](),
		pendingARP:   internal.NewAgingMap[uint32, struct{}](),
		pendingQueue: make(map[uint32][]ipv4.Datagram),
		Transmit:     transmit,
	}
	iface.Info("network interface created", internal.SlogAddr6("hw_addr", (*[6]byte)(&hwAddr)), internal.SlogAddr4("ip_addr", (*[4]byte)(&ipAddr)))
	return iface
}

// SendDatagram sends dgram to nextHop, resolving nextHop's hardware address
// via ARP first if it isn't already cached. While resolution is pending,
// the datagram is queued and sent once the reply arrives.
func (iface *Interface) SendDatagram(dgram ipv4.Datagram, nextHop ipv4.Addr) {
	key := nextHop.As32()
	if entry, ok := iface.cache.Get(key); ok {
		iface.sendFrame(dgram, entry.mac)
		return
	}

	iface.pendingQueue[key] = append(iface.pendingQueue[key], dgram)
	if _, inFlight := iface.pendingARP.Get(key); inFlight {
		return // An ARP request for this address is already outstanding.
	}

	iface.pendingARP.Set(key, struct{}{})
	req := arp.NewRequest(iface.hwAddr, iface.ipAddr, nextHop)
	iface.Debug("arp: sending request", internal.SlogAddr4("target", (*[4]byte)(&nextHop)))
	iface.Transmit(ethernet.Frame{
		Destination: ethernet.Broadcast,
		Source:      iface.hwAddr,
		EtherType:   ethernet.TypeARP,
		Payload:     req,
	})
}

// RecvFrame processes an inbound Ethernet frame: ARP requests addressed to
// us are replied to, ARP replies populate the cache and flush any queued
// datagrams, and IPv4 frames are appended to the received-datagram queue.
func (iface *Interface) RecvFrame(frame ethernet.Frame) {
	switch frame.EtherType {
	case ethernet.TypeARP:
		iface.recvARP(frame)
	case ethernet.TypeIPv4:
		dgram, ok := frame.Payload.(ipv4.Datagram)
		if ok {
			iface.received = append(iface.received, dgram)
		}
	}
}

func (iface *Interface) recvARP(frame ethernet.Frame) {
	msg, ok := frame.Payload.(arp.Message)
	if !ok {
		return
	}

	iface.cache.Set(msg.SenderProto.As32(), cachedMAC{mac: msg.SenderHW})

	if msg.IsRequestFor(iface.ipAddr) {
		reply := msg.Reply(iface.hwAddr)
		iface.Transmit(ethernet.Frame{
			Destination: reply.TargetHW,
			Source:      iface.hwAddr,
			EtherType:   ethernet.TypeARP,
			Payload:     reply,
		})
	}

	key := msg.SenderProto.As32()
	iface.pendingARP.Delete(key)
	queued := iface.pendingQueue[key]
	delete(iface.pendingQueue, key)
	for _, dgram := range queued {
		iface.sendFrame(dgram, msg.SenderHW)
	}
}

func (iface *Interface) sendFrame(dgram ipv4.Datagram, dst ethernet.Addr) {
	iface.Transmit(ethernet.Frame{
		Destination: dst,
		Source:      iface.hwAddr,
		EtherType:   ethernet.TypeIPv4,
		Payload:     dgram,
	})
}

// PopReceivedDatagram removes and returns the oldest received IPv4 datagram.
func (iface *Interface) PopReceivedDatagram() (ipv4.Datagram, bool) {
	if len(iface.received) == 0 {
		return ipv4.Datagram{}, false
	}
	dgram := iface.received[0]
	iface.received = iface.received[1:]
	return dgram, true
}

// Tick advances internal timers by elapsedMS: expired ARP cache entries and
// pending ARP requests are evicted, and a cache eviction also discards that
// next hop's queued datagrams so a stale resolution is never reused.
func (iface *Interface) Tick(elapsedMS uint64) {
	iface.cache.Tick(elapsedMS, arpCacheTTLMS, func(key uint32, _ cachedMAC) {
		delete(iface.pendingQueue, key)
		iface.Debug("arp: cache entry expired", slog.Uint64("key", uint64(key)))
	})
	iface.pendingARP.Tick(elapsedMS, arpRequestTTLMS, func(key uint32, _ struct{}) {
		delete(iface.pendingQueue, key)
		iface.Warn("arp: request timed out", slog.Uint64("key", uint64(key)))
	})
}
