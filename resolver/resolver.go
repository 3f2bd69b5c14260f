// Package resolver implements the iterative (non-recursive-server)
// resolution loop: starting from a root server hint, it walks the
// delegation chain of NS records until it gets an authoritative answer
// or a definitive NXDOMAIN, resolving any unglued nameserver along the
// way with a nested lookup of its own.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/bitsexplained/dns/dns"
	"github.com/bitsexplained/dns/internal/metrics"
)

// queryID is the fixed message ID used for every outbound query; nothing
// in this resolver relies on ID-based request/response correlation beyond
// a single outstanding query per socket.
const queryID = 6666

const dialTimeout = 5 * time.Second

// maxDelegationSteps bounds how many times Resolve will follow an NS
// delegation before giving up and returning the best response it has.
// maxRecursionDepth bounds the nested lookups Resolve performs to resolve
// an unglued nameserver's own A record, guarding against adversarial or
// misconfigured zones that delegate in a cycle.
const (
	maxDelegationSteps = 30
	maxRecursionDepth  = 10
)

// ErrNoResponse is returned when Resolve exhausts its delegation budget
// without ever receiving a usable response from any nameserver.
var ErrNoResponse = errors.New("resolver: exhausted delegation chain without a response")

// Transport sends one DNS query over the wire and returns the parsed
// response. It exists so Resolve's control flow can be tested against a
// synthetic server instead of the real network.
type Transport interface {
	Exchange(ctx context.Context, server string, query *dns.Packet) (*dns.Packet, error)
}

// UDPTransport is the default Transport, sending each query from a fresh
// UDP socket to server:53.
type UDPTransport struct {
	// SourcePort is the local port Exchange tries to bind before sending.
	// If binding that port fails, Exchange falls back to an OS-assigned
	// port rather than erroring.
	SourcePort int
}

func (t *UDPTransport) Exchange(ctx context.Context, server string, query *dns.Packet) (*dns.Packet, error) {
	laddr := &net.UDPAddr{Port: t.SourcePort}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		conn, err = net.ListenUDP("udp", &net.UDPAddr{})
		if err != nil {
			return nil, fmt.Errorf("resolver: bind outbound socket: %w", err)
		}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(dialTimeout))
	}

	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(server, "53"))
	if err != nil {
		return nil, fmt.Errorf("resolver: resolve upstream address %q: %w", server, err)
	}

	reqBuf := dns.NewPacketBuffer()
	if err := query.Pack(reqBuf); err != nil {
		return nil, fmt.Errorf("resolver: encode query: %w", err)
	}
	if _, err := conn.WriteToUDP(reqBuf.Bytes(), raddr); err != nil {
		return nil, fmt.Errorf("resolver: send query to %s: %w", server, err)
	}

	resp := make([]byte, dns.MaxPacketSize)
	n, _, err := conn.ReadFromUDP(resp)
	if err != nil {
		return nil, fmt.Errorf("resolver: read response from %s: %w", server, err)
	}

	respBuf, err := dns.NewPacketBufferFrom(resp[:n])
	if err != nil {
		return nil, err
	}
	packet := &dns.Packet{}
	if err := packet.Unpack(respBuf); err != nil {
		return nil, fmt.Errorf("resolver: decode response from %s: %w", server, err)
	}
	return packet, nil
}

// Resolver performs iterative DNS lookups.
type Resolver struct {
	Transport Transport
	Logger    *slog.Logger
}

// New returns a Resolver with the default UDP transport.
func New(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		Transport: &UDPTransport{SourcePort: 42340},
		Logger:    logger,
	}
}

// Resolve looks up qname/qtype starting at the hardcoded root server,
// following NS delegations until an authoritative answer or NXDOMAIN is
// reached, per the six-step loop: query current ns; if it answered with
// NOERROR and has answers, or with NXDOMAIN, return it; if it delegated
// to a nameserver with glue, switch to that nameserver and continue; if
// it delegated without glue, resolve that nameserver's own A record (a
// nested, depth-bounded lookup) and switch to it if found; otherwise
// return the current response as the best available answer.
func (r *Resolver) Resolve(ctx context.Context, qname string, qtype dns.QueryType) (*dns.Packet, error) {
	resp, steps, err := r.resolve(ctx, qname, qtype, maxRecursionDepth)
	metrics.ResolutionSteps.Observe(float64(steps))
	return resp, err
}

// resolve runs the delegation loop and additionally reports how many
// steps it took, so Resolve can feed metrics.ResolutionSteps. Steps taken
// by a nested lookup (to resolve an unglued nameserver's own A record)
// are not added to the caller's count — the metric tracks delegation
// depth for the query actually asked, not the total work underneath it.
func (r *Resolver) resolve(ctx context.Context, qname string, qtype dns.QueryType, depthBudget int) (*dns.Packet, int, error) {
	ns := defaultRootServer

	var last *dns.Packet
	for step := 0; step < maxDelegationSteps; step++ {
		query := dns.NewQuery(queryID, qname, qtype)
		resp, err := r.Transport.Exchange(ctx, ns, query)
		if err != nil {
			r.Logger.Warn("resolver: query failed", slog.String("ns", ns), slog.String("qname", qname), slog.Any("err", err))
			if last != nil {
				return last, step, nil
			}
			return nil, step, err
		}
		last = resp

		if len(resp.Answers) > 0 && resp.Header.RCode == dns.NOERROR {
			return resp, step + 1, nil
		}
		if resp.Header.RCode == dns.NXDOMAIN {
			return resp, step + 1, nil
		}

		if glued, ok := resp.GetResolvedNS(qname); ok {
			ns = glued
			continue
		}

		nsHost, ok := resp.GetUnresolvedNS(qname)
		if !ok {
			return resp, step + 1, nil
		}

		if depthBudget <= 0 {
			return resp, step + 1, nil
		}
		nsResp, _, err := r.resolve(ctx, nsHost, dns.TypeA, depthBudget-1)
		if err != nil || nsResp == nil {
			return resp, step + 1, nil
		}
		addr, ok := nsResp.GetRandomARecord()
		if !ok {
			return resp, step + 1, nil
		}
		ns = addr
	}

	if last != nil {
		return last, maxDelegationSteps, nil
	}
	return nil, maxDelegationSteps, ErrNoResponse
}
