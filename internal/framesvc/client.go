package framesvc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a Frames server.
type Client struct {
	cc   grpc.ClientConnInterface
	conn *grpc.ClientConn
}

// Dial connects to address without transport security unless opts say otherwise.
func Dial(address string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", address, err)
	}
	return &Client{cc: conn, conn: conn}, nil
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Close closes the connection opened by Dial.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Watch starts streaming the frames of session.
func (c *Client) Watch(ctx context.Context, session string) (*Stream, error) {
	return c.watch(ctx, Version, session)
}

func (c *Client) watch(ctx context.Context, version int64, session string) (*Stream, error) {
	req, err := structpb.NewStruct(map[string]any{
		"version": version,
		"session": session,
	})
	if err != nil {
		return nil, err
	}
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], WatchMethod)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &Stream{stream}, nil
}

// Stream receives frames, Recv returns io.EOF after the last one.
type Stream struct {
	s grpc.ClientStream
}

func (s *Stream) Recv() (Frame, error) {
	m := new(structpb.Struct)
	if err := s.s.RecvMsg(m); err != nil {
		return Frame{}, err
	}
	return FromStruct(m), nil
}

// Frame summarises one streamed message.
type Frame struct {
	Session string
	Type    string
	Alpha   float64
	// Paths and Nodes count the elements a tick moved.
	Paths int
	Nodes int
	Ticks int
	Raw   *structpb.Struct
}

func FromStruct(m *structpb.Struct) Frame {
	f := m.GetFields()
	return Frame{
		Session: f["session"].GetStringValue(),
		Type:    f["type"].GetStringValue(),
		Alpha:   f["alpha"].GetNumberValue(),
		Paths:   len(f["paths"].GetStructValue().GetFields()),
		Nodes:   len(f["nodes"].GetStructValue().GetFields()),
		Ticks:   int(f["ticks"].GetNumberValue()),
		Raw:     m,
	}
}
