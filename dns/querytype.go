package dns

// QueryType identifies the RR type of a question or record. It is modeled
// as a plain uint16-backed type rather than a sum type so that decoding an
// unrecognized value and re-encoding it round-trips losslessly: ToNum and
// FromNum are inverse by construction for every possible wire value, named
// or not.
type QueryType uint16

const (
	TypeUnknown QueryType = 0
	TypeA       QueryType = 1
	TypeNS      QueryType = 2
	TypeCNAME   QueryType = 5
	TypeMX      QueryType = 15
	TypeAAAA    QueryType = 28
)

// ToNum returns the wire value of t.
func (t QueryType) ToNum() uint16 {
	return uint16(t)
}

// QueryTypeFromNum builds a QueryType from a wire value. Values without a
// named constant above are kept verbatim rather than collapsed to a
// sentinel, so the round-trip law FromNum(ToNum(x)) == x holds for every x.
func QueryTypeFromNum(n uint16) QueryType {
	return QueryType(n)
}

func (t QueryType) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeCNAME:
		return "CNAME"
	case TypeMX:
		return "MX"
	case TypeAAAA:
		return "AAAA"
	default:
		return "UNKNOWN"
	}
}
