package dns

import "strings"

// Packet is a fully decoded (or to-be-encoded) DNS message.
type Packet struct {
	Header     Header
	Questions  []Question
	Answers    []Record
	Authorities []Record
	Resources  []Record
}

// NewQuery builds a Packet containing a single question, with the header
// fields a recursive lookup needs: a fixed ID, QR=0, RD=1, one question.
func NewQuery(id uint16, qname string, qtype QueryType) *Packet {
	p := &Packet{}
	p.Header.ID = id
	p.Header.Questions = 1
	p.Header.RecursionDesired = true
	p.Questions = append(p.Questions, Question{Name: qname, Type: qtype})
	return p
}

// Unpack decodes a full DNS message from pb, starting at its current
// cursor (normally 0), in section order: header, questions, answers,
// authorities, resources.
func (p *Packet) Unpack(pb *PacketBuffer) error {
	if err := p.Header.Unpack(pb); err != nil {
		return err
	}

	p.Questions = make([]Question, 0, p.Header.Questions)
	for i := uint16(0); i < p.Header.Questions; i++ {
		var q Question
		if err := q.Read(pb); err != nil {
			return err
		}
		p.Questions = append(p.Questions, q)
	}

	readRecords := func(n uint16) ([]Record, error) {
		recs := make([]Record, 0, n)
		for i := uint16(0); i < n; i++ {
			var r Record
			if err := r.Read(pb); err != nil {
				return nil, err
			}
			recs = append(recs, r)
		}
		return recs, nil
	}

	var err error
	if p.Answers, err = readRecords(p.Header.Answers); err != nil {
		return err
	}
	if p.Authorities, err = readRecords(p.Header.AuthoritativeEntries); err != nil {
		return err
	}
	if p.Resources, err = readRecords(p.Header.ResourceEntries); err != nil {
		return err
	}
	return nil
}

// Pack encodes the packet to pb. The header's section counts are
// recomputed from the slice lengths before writing, so callers need only
// populate Questions/Answers/Authorities/Resources.
func (p *Packet) Pack(pb *PacketBuffer) error {
	p.Header.Questions = uint16(len(p.Questions))
	p.Header.Answers = uint16(len(p.Answers))
	p.Header.AuthoritativeEntries = uint16(len(p.Authorities))
	p.Header.ResourceEntries = uint16(len(p.Resources))

	if err := p.Header.Pack(pb); err != nil {
		return err
	}
	for i := range p.Questions {
		if err := p.Questions[i].Write(pb); err != nil {
			return err
		}
	}
	for _, recs := range [][]Record{p.Answers, p.Authorities, p.Resources} {
		for i := range recs {
			if _, err := recs[i].Write(pb); err != nil {
				return err
			}
		}
	}
	return nil
}

func isSubdomainOf(qname, domain string) bool {
	return strings.HasSuffix(strings.ToLower(qname), strings.ToLower(domain))
}

// GetResolvedNS scans the authority section for NS records whose domain
// is a suffix match of qname, and returns the IPv4 address of the first
// one that has a matching glue A record in the additional (resources)
// section. It returns ("", false) when no NS record has glue.
func (p *Packet) GetResolvedNS(qname string) (string, bool) {
	for _, auth := range p.Authorities {
		if auth.Type != TypeNS || !isSubdomainOf(qname, auth.Domain) {
			continue
		}
		for _, res := range p.Resources {
			if res.Type == TypeA && strings.EqualFold(res.Domain, auth.Host) {
				return res.Addr.String(), true
			}
		}
	}
	return "", false
}

// GetUnresolvedNS scans the authority section for NS records whose
// domain is a suffix match of qname and returns the first such NS's host
// name, for callers that must resolve it themselves because no glue
// record was provided. It returns ("", false) when there is no such NS.
func (p *Packet) GetUnresolvedNS(qname string) (string, bool) {
	for _, auth := range p.Authorities {
		if auth.Type == TypeNS && isSubdomainOf(qname, auth.Domain) {
			return auth.Host, true
		}
	}
	return "", false
}

// GetRandomARecord returns the IPv4 address of the first A record found
// in the answer section, or ("", false) if there is none.
func (p *Packet) GetRandomARecord() (string, bool) {
	for _, ans := range p.Answers {
		if ans.Type == TypeA {
			return ans.Addr.String(), true
		}
	}
	return "", false
}
