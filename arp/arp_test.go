package arp

import (
	"testing"

	"github.com/soypat/minnow/ethernet"
	"github.com/soypat/minnow/ipv4"
)

func TestNewRequestAndReply(t *testing.T) {
	senderHW := ethernet.Addr{1, 1, 1, 1, 1, 1}
	senderIP := ipv4.Addr{10, 0, 0, 1}
	targetIP := ipv4.Addr{10, 0, 0, 2}

	req := NewRequest(senderHW, senderIP, targetIP)
	if req.Operation != OpRequest {
		t.Fatalf("expected OpRequest")
	}
	if !req.IsRequestFor(targetIP) {
		t.Fatalf("expected IsRequestFor(targetIP) true")
	}
	if req.IsRequestFor(senderIP) {
		t.Fatalf("expected IsRequestFor(senderIP) false")
	}

	targetHW := ethernet.Addr{2, 2, 2, 2, 2, 2}
	reply := req.Reply(targetHW)
	if reply.Operation != OpReply {
		t.Fatalf("expected OpReply")
	}
	if reply.SenderHW != targetHW || reply.SenderProto != targetIP {
		t.Fatalf("reply sender fields wrong: %+v", reply)
	}
	if reply.TargetHW != senderHW || reply.TargetProto != senderIP {
		t.Fatalf("reply target fields wrong: %+v", reply)
	}
}
