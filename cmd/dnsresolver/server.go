package main

import (
	"context"
	"log/slog"
	"net"

	"github.com/google/uuid"

	"github.com/bitsexplained/dns/dns"
	"github.com/bitsexplained/dns/internal/metrics"
	"github.com/bitsexplained/dns/resolver"
)

// Server is the resolver's UDP front end. It reads one datagram at a
// time, resolves it to completion, and writes the reply before reading
// the next one — there is no per-request goroutine and no queue.
type Server struct {
	conn     *net.UDPConn
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// NewServer binds addr and returns a Server ready to Run.
func NewServer(addr string, logger *slog.Logger) (*Server, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		conn:     conn,
		resolver: resolver.New(logger),
		logger:   logger,
	}, nil
}

// Close releases the listening socket.
func (s *Server) Close() error {
	return s.conn.Close()
}

// Run reads and handles datagrams sequentially until ctx is canceled or
// the socket errors.
func (s *Server) Run(ctx context.Context) error {
	buf := make([]byte, dns.MaxPacketSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, clientAddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("read from socket failed", slog.Any("err", err))
			continue
		}

		s.handleDatagram(ctx, buf[:n], clientAddr)
	}
}

func (s *Server) handleDatagram(ctx context.Context, data []byte, clientAddr *net.UDPAddr) {
	correlationID := uuid.New()
	log := s.logger.With(slog.String("correlation_id", correlationID.String()), slog.String("client", clientAddr.String()))

	reqBuf, err := dns.NewPacketBufferFrom(data)
	if err != nil {
		log.Warn("datagram too large", slog.Any("err", err))
		metrics.FailuresTotal.WithLabelValues("oversized").Inc()
		return
	}

	request := &dns.Packet{}
	unpackErr := request.Unpack(reqBuf)
	if len(request.Questions) == 0 {
		log.Warn("no parseable question, replying FORMERR", slog.Any("err", unpackErr))
		metrics.FailuresTotal.WithLabelValues("formerr").Inc()
		s.sendError(request, clientAddr, dns.FORMERR, log)
		return
	}
	if unpackErr != nil {
		log.Warn("question parsed but trailing sections were malformed, replying SERVFAIL", slog.Any("err", unpackErr))
		metrics.FailuresTotal.WithLabelValues("servfail").Inc()
		s.sendError(request, clientAddr, dns.SERVFAIL, log)
		return
	}

	question := request.Questions[0]
	log = log.With(slog.String("qname", question.Name), slog.String("qtype", question.Type.String()))

	// A per-request copy of the resolver logs with this request's logger,
	// so its log lines carry the correlation ID too.
	res := *s.resolver
	res.Logger = log
	result, err := res.Resolve(ctx, question.Name, question.Type)
	if err != nil || result == nil {
		log.Warn("resolution failed, replying SERVFAIL", slog.Any("err", err))
		metrics.FailuresTotal.WithLabelValues("servfail").Inc()
		s.sendError(request, clientAddr, dns.SERVFAIL, log)
		return
	}

	response := &dns.Packet{
		Header:      request.Header,
		Questions:   request.Questions,
		Answers:     result.Answers,
		Authorities: result.Authorities,
		Resources:   result.Resources,
	}
	response.Header.Response = true
	response.Header.RecursionAvailable = true
	response.Header.RCode = result.Header.RCode

	if err := s.writeResponse(response, clientAddr); err != nil {
		log.Error("failed to write response, replying SERVFAIL", slog.Any("err", err))
		metrics.FailuresTotal.WithLabelValues("write").Inc()
		s.sendError(request, clientAddr, dns.SERVFAIL, log)
		return
	}

	metrics.QueriesTotal.WithLabelValues(question.Type.String(), response.Header.RCode.String()).Inc()
	log.Info("resolved", slog.String("rcode", response.Header.RCode.String()), slog.Int("answers", len(response.Answers)))
}

func (s *Server) sendError(request *dns.Packet, clientAddr *net.UDPAddr, code dns.ResultCode, log *slog.Logger) {
	response := &dns.Packet{Header: request.Header, Questions: request.Questions}
	response.Header.Response = true
	response.Header.RCode = code
	if err := s.writeResponse(response, clientAddr); err != nil {
		log.Error("failed to write error response", slog.Any("err", err))
	}
}

func (s *Server) writeResponse(p *dns.Packet, clientAddr *net.UDPAddr) error {
	buf := dns.NewPacketBuffer()
	if err := p.Pack(buf); err != nil {
		return err
	}
	_, err := s.conn.WriteToUDP(buf.Bytes(), clientAddr)
	return err
}
