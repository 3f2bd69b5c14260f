package dns

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordARoundTrip(t *testing.T) {
	r := Record{Domain: "example.com", Type: TypeA, TTL: 300, Addr: net.ParseIP("93.184.216.34")}
	pb := NewPacketBuffer()
	n, err := r.Write(pb)
	require.NoError(t, err)
	require.Equal(t, pb.Pos(), n)

	pb.Seek(0)
	var got Record
	require.NoError(t, got.Read(pb))
	require.Equal(t, r.Domain, got.Domain)
	require.Equal(t, r.TTL, got.TTL)
	require.True(t, r.Addr.Equal(got.Addr))
}

func TestRecordAAAARoundTrip(t *testing.T) {
	addr := net.ParseIP("2001:db8::1")
	r := Record{Domain: "example.com", Type: TypeAAAA, TTL: 60, Addr: addr}
	pb := NewPacketBuffer()
	_, err := r.Write(pb)
	require.NoError(t, err)

	pb.Seek(0)
	var got Record
	require.NoError(t, got.Read(pb))
	require.True(t, addr.Equal(got.Addr))
}

func TestRecordNSRoundTripPatchesRDLength(t *testing.T) {
	r := Record{Domain: "example.com", Type: TypeNS, TTL: 3600, Host: "ns1.example.com"}
	pb := NewPacketBuffer()
	n, err := r.Write(pb)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	// RDLENGTH sits just before the 17-byte encoded host name.
	rdlen, err := pb.GetRange(n-17-2, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 17}, rdlen)

	pb.Seek(0)
	var got Record
	require.NoError(t, got.Read(pb))
	require.Equal(t, "ns1.example.com", got.Host)
}

func TestRecordMXRoundTrip(t *testing.T) {
	r := Record{Domain: "example.com", Type: TypeMX, TTL: 3600, Priority: 10, Host: "mail.example.com"}
	pb := NewPacketBuffer()
	_, err := r.Write(pb)
	require.NoError(t, err)

	pb.Seek(0)
	var got Record
	require.NoError(t, got.Read(pb))
	require.Equal(t, uint16(10), got.Priority)
	require.Equal(t, "mail.example.com", got.Host)
}

func TestRecordUnknownTypeSkipsOnReadAndDropsOnWrite(t *testing.T) {
	pb := NewPacketBuffer()
	require.NoError(t, pb.WriteQName("weird.example.com"))
	require.NoError(t, pb.WriteUint16(99)) // unrecognized qtype
	require.NoError(t, pb.WriteUint16(1))  // class
	require.NoError(t, pb.WriteUint32(60)) // ttl
	require.NoError(t, pb.WriteUint16(4))  // rdlength
	require.NoError(t, pb.WriteUint32(0xAABBCCDD))

	endOfRecord := pb.Pos()
	pb.Seek(0)

	var got Record
	require.NoError(t, got.Read(pb))
	require.Equal(t, QueryType(99), got.Type)
	require.Equal(t, uint16(4), got.UnknownLen)
	require.Equal(t, endOfRecord, pb.Pos())

	out := NewPacketBuffer()
	n, err := got.Write(out)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
