package dns

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuestionWriteReadRoundTrip(t *testing.T) {
	q := Question{Name: "example.com", Type: TypeAAAA}
	pb := NewPacketBuffer()
	require.NoError(t, q.Write(pb))

	pb.Seek(0)
	var got Question
	require.NoError(t, got.Read(pb))
	require.Equal(t, q, got)
}

func TestQuestionUnknownTypeRoundTrips(t *testing.T) {
	q := Question{Name: "example.com", Type: QueryTypeFromNum(99)}
	pb := NewPacketBuffer()
	require.NoError(t, q.Write(pb))

	pb.Seek(0)
	var got Question
	require.NoError(t, got.Read(pb))
	require.Equal(t, QueryType(99), got.Type)
}
