// Package router implements IPv4 longest-prefix-match forwarding across a
// set of netiface.Interface instances.
package router

import (
	"errors"
	"log/slog"

	"github.com/soypat/minnow/internal"
	"github.com/soypat/minnow/ipv4"
	"github.com/soypat/minnow/netiface"
)

var errBadInterfaceIndex = errors.New("router: interface index out of range")

// route is one forwarding table entry.
type route struct {
	prefix    ipv4.Addr
	prefixLen uint8
	nextHop   *ipv4.Addr // nil means the destination is directly reachable.
	ifaceIdx  int
}

// Router forwards IPv4 datagrams received on one interface out whichever
// interface matches the longest prefix of the datagram's destination.
type Router struct {
	internal.Logger

	interfaces []*netiface.Interface
	routes     []route
}

// New returns an empty Router.
func New() *Router { return &Router{} }

// AddInterface registers iface and returns its index, used by AddRoute.
func (r *Router) AddInterface(iface *netiface.Interface) int {
	r.interfaces = append(r.interfaces, iface)
	return len(r.interfaces) - 1
}

// AddRoute installs a forwarding entry for prefix/prefixLen via nextHop (nil
// if the network is directly attached) out interface ifaceIndex. Later
// routes with an equally-specific prefix win ties over earlier ones.
func (r *Router) AddRoute(prefix ipv4.Addr, prefixLen uint8, nextHop *ipv4.Addr, ifaceIndex int) error {
	r.Info("router: adding route",
		internal.SlogAddr4("prefix", (*[4]byte)(&prefix)),
		slog.Int("prefix_len", int(prefixLen)),
		slog.Int("iface", ifaceIndex))
	if ifaceIndex < 0 || ifaceIndex >= len(r.interfaces) {
		return errBadInterfaceIndex
	}
	r.routes = append(r.routes, route{prefix: prefix, prefixLen: prefixLen, nextHop: nextHop, ifaceIdx: ifaceIndex})
	return nil
}

// Route drains every registered interface's received datagrams and forwards
// each via the longest matching route, decrementing TTL and dropping the
// datagram if TTL would reach zero or no route matches.
func (r *Router) Route() {
	for _, iface := range r.interfaces {
		for {
			dgram, ok := iface.PopReceivedDatagram()
			if !ok {
				break
			}
			r.routeOne(dgram)
		}
	}
}

func (r *Router) routeOne(dgram ipv4.Datagram) {
	dst := dgram.Header.Dest
	match := r.longestMatch(dst)
	if match == nil {
		r.Debug("router: no matching route", internal.SlogAddr4("dst", (*[4]byte)(&dst)))
		return
	}

	forwarded, ok := dgram.DecrementTTL()
	if !ok {
		r.Debug("router: dropping datagram, TTL expired", internal.SlogAddr4("dst", (*[4]byte)(&dst)))
		return
	}

	nextHop := forwarded.Header.Dest
	if match.nextHop != nil {
		nextHop = *match.nextHop
	}
	r.interfaces[match.ifaceIdx].SendDatagram(forwarded, nextHop)
}

// longestMatch returns the most specific route matching dst, with later
// insertions winning ties of equal specificity.
func (r *Router) longestMatch(dst ipv4.Addr) *route {
	var best *route
	for i := range r.routes {
		rt := &r.routes[i]
		if !dst.MatchesPrefix(rt.prefix, rt.prefixLen) {
			continue
		}
		if best == nil || rt.prefixLen >= best.prefixLen {
			best = rt
		}
	}
	return best
}
