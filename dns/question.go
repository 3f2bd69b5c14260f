package dns

// Question is a single entry in a DNS message's question section.
type Question struct {
	Name string
	Type QueryType
}

// Write encodes the question: name, then the query type, then a fixed
// class of IN. Class is otherwise unused by this resolver.
func (q *Question) Write(pb *PacketBuffer) error {
	if err := pb.WriteQName(q.Name); err != nil {
		return err
	}
	if err := pb.WriteUint16(q.Type.ToNum()); err != nil {
		return err
	}
	return pb.WriteUint16(uint16(ClassIN))
}

// Read decodes a question: name, query type, then a class field that is
// read and discarded.
func (q *Question) Read(pb *PacketBuffer) error {
	name, err := pb.ReadQName()
	if err != nil {
		return err
	}
	q.Name = name

	t, err := pb.ReadUint16()
	if err != nil {
		return err
	}
	q.Type = QueryTypeFromNum(t)

	if _, err := pb.ReadUint16(); err != nil {
		return err
	}
	return nil
}
