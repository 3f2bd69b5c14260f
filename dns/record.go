package dns

import (
	"fmt"
	"net"
)

// Record is a single resource record. Only the fields relevant to its
// Type are populated. Types this codec does not recognize (SOA, TXT, PTR,
// and friends) decode as UNKNOWN: Type keeps their wire number,
// UnknownLen their RDLENGTH, and the RDATA itself is skipped.
type Record struct {
	Domain string
	Type   QueryType
	TTL    uint32

	// Addr holds the address for A (4 bytes) and AAAA (16 bytes) records.
	Addr net.IP

	// Host holds the target domain for NS, CNAME, and MX records.
	Host string

	// Priority holds the MX preference value.
	Priority uint16

	// UnknownLen holds the RDLENGTH of a record this codec does not
	// recognize, so a caller can see how many bytes were skipped.
	UnknownLen uint16
}

// Read decodes one resource record starting at pb's current cursor.
func (r *Record) Read(pb *PacketBuffer) error {
	domain, err := pb.ReadQName()
	if err != nil {
		return err
	}
	r.Domain = domain

	qtypeNum, err := pb.ReadUint16()
	if err != nil {
		return err
	}
	r.Type = QueryTypeFromNum(qtypeNum)

	if _, err := pb.ReadUint16(); err != nil { // class, discarded
		return err
	}

	ttl, err := pb.ReadUint32()
	if err != nil {
		return err
	}
	r.TTL = ttl

	dataLen, err := pb.ReadUint16()
	if err != nil {
		return err
	}

	switch r.Type {
	case TypeA:
		raw, err := pb.ReadUint32()
		if err != nil {
			return err
		}
		r.Addr = net.IPv4(byte(raw>>24), byte(raw>>16), byte(raw>>8), byte(raw))
	case TypeAAAA:
		var words [4]uint32
		for i := range words {
			w, err := pb.ReadUint32()
			if err != nil {
				return err
			}
			words[i] = w
		}
		ip := make(net.IP, net.IPv6len)
		for i, w := range words {
			ip[i*4] = byte(w >> 24)
			ip[i*4+1] = byte(w >> 16)
			ip[i*4+2] = byte(w >> 8)
			ip[i*4+3] = byte(w)
		}
		r.Addr = ip
	case TypeNS, TypeCNAME:
		host, err := pb.ReadQName()
		if err != nil {
			return err
		}
		r.Host = host
	case TypeMX:
		priority, err := pb.ReadUint16()
		if err != nil {
			return err
		}
		host, err := pb.ReadQName()
		if err != nil {
			return err
		}
		r.Priority = priority
		r.Host = host
	default:
		pb.Step(int(dataLen))
		r.UnknownLen = dataLen
	}

	return nil
}

// Write encodes the record at pb's current cursor and returns the number
// of bytes written. UNKNOWN records are never written: there is nothing
// meaningful to re-encode for a record this codec does not model, so
// Write is a no-op for them and reports zero bytes written, mirroring
// the original program's skip-on-write behavior.
func (r *Record) Write(pb *PacketBuffer) (int, error) {
	start := pb.Pos()

	switch r.Type {
	case TypeA:
		if err := writeRecordHeader(pb, r, 4); err != nil {
			return 0, err
		}
		ip4 := r.Addr.To4()
		if ip4 == nil {
			return 0, fmt.Errorf("dns: A record %q has no IPv4 address", r.Domain)
		}
		for _, b := range ip4 {
			if err := pb.WriteUint8(b); err != nil {
				return 0, err
			}
		}

	case TypeAAAA:
		if err := writeRecordHeader(pb, r, 16); err != nil {
			return 0, err
		}
		ip16 := r.Addr.To16()
		if ip16 == nil {
			return 0, fmt.Errorf("dns: AAAA record %q has no IPv6 address", r.Domain)
		}
		for _, b := range ip16 {
			if err := pb.WriteUint8(b); err != nil {
				return 0, err
			}
		}

	case TypeNS, TypeCNAME:
		if err := writeRecordHeaderPlaceholder(pb, r); err != nil {
			return 0, err
		}
		rdlenPos := pb.Pos() - 2
		if err := pb.WriteQName(r.Host); err != nil {
			return 0, err
		}
		if err := patchRDLength(pb, rdlenPos); err != nil {
			return 0, err
		}

	case TypeMX:
		if err := writeRecordHeaderPlaceholder(pb, r); err != nil {
			return 0, err
		}
		rdlenPos := pb.Pos() - 2
		if err := pb.WriteUint16(r.Priority); err != nil {
			return 0, err
		}
		if err := pb.WriteQName(r.Host); err != nil {
			return 0, err
		}
		if err := patchRDLength(pb, rdlenPos); err != nil {
			return 0, err
		}

	default:
		return 0, nil
	}

	return pb.Pos() - start, nil
}

func writeRecordHeader(pb *PacketBuffer, r *Record, rdlength uint16) error {
	if err := pb.WriteQName(r.Domain); err != nil {
		return err
	}
	if err := pb.WriteUint16(r.Type.ToNum()); err != nil {
		return err
	}
	if err := pb.WriteUint16(uint16(ClassIN)); err != nil {
		return err
	}
	if err := pb.WriteUint32(r.TTL); err != nil {
		return err
	}
	return pb.WriteUint16(rdlength)
}

// writeRecordHeaderPlaceholder writes the record header with a zero
// RDLENGTH placeholder, to be patched once the RDATA body (which may
// itself contain a name) has been written.
func writeRecordHeaderPlaceholder(pb *PacketBuffer, r *Record) error {
	return writeRecordHeader(pb, r, 0)
}

func patchRDLength(pb *PacketBuffer, rdlenPos int) error {
	size := pb.Pos() - (rdlenPos + 2)
	return pb.SetUint16(rdlenPos, uint16(size))
}
