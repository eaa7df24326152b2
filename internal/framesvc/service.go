// Package framesvc streams the frames of live sessions over gRPC. Requests and frames
// are google.protobuf.Struct values so the service needs no generated code.
package framesvc

import (
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Version must match between watcher and server.
const Version int64 = 1

const (
	ServiceName = "subgraph.Frames"
	WatchMethod = "/" + ServiceName + "/Watch"
)

// FramesServer is the server side of the Frames service.
type FramesServer interface {
	// Watch streams the frames of the session named in req until it closes.
	Watch(req *structpb.Struct, stream WatchServer) error
}

// WatchServer is the stream a Watch call sends frames on.
type WatchServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchServer struct {
	grpc.ServerStream
}

func (x *watchServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func watchHandler(srv interface{}, stream grpc.ServerStream) error {
	req := new(structpb.Struct)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(FramesServer).Watch(req, &watchServer{stream})
}

// ServiceDesc describes the Frames service to grpc.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FramesServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "subgraph/frames.proto",
}

func RegisterFramesServer(s grpc.ServiceRegistrar, srv FramesServer) {
	s.RegisterService(&ServiceDesc, srv)
}
