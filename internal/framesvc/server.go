package framesvc

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/psidex/subgraph/internal/hub"
)

// Server answers Watch calls with the messages the hub carries for a session.
type Server struct {
	logger *slog.Logger
	hub    *hub.Hub
	buffer int
}

var _ FramesServer = (*Server)(nil)

func NewServer(logger *slog.Logger, h *hub.Hub) *Server {
	return &Server{logger: logger, hub: h, buffer: 256}
}

func (s *Server) Watch(req *structpb.Struct, stream WatchServer) error {
	ctx := stream.Context()
	fields := req.GetFields()

	version := int64(fields["version"].GetNumberValue())
	if version != Version {
		return status.Errorf(
			codes.PermissionDenied,
			"version mismatch: expected %d, got %d",
			Version, version,
		)
	}

	session := fields["session"].GetStringValue()
	sub, ok := s.hub.Subscribe(session, s.buffer)
	if !ok {
		return status.Errorf(codes.NotFound, "no such session: %q", session)
	}
	defer s.hub.Unsubscribe(sub)
	s.logger.Debug("watcher attached", "session", session, "watcher", sub.ID())

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("watcher left", "session", session, "err", ctx.Err())
			return ctx.Err()

		case m, ok := <-sub.Events():
			if !ok {
				return nil
			}
			frame, err := ToStruct(m)
			if err != nil {
				s.logger.Error("could not convert message", "type", m.Type, "error", err)
				continue
			}
			if err := stream.Send(frame); err != nil {
				s.logger.Error("failed to send on watch stream", "session", session, "error", err)
				return err
			}
			if m.Type == hub.Closed {
				return nil
			}
		}
	}
}

// ToStruct converts a hub message to the frame sent to watchers. The message is
// flattened, data fields sit next to "session" and "type".
func ToStruct(m hub.Message) (*structpb.Struct, error) {
	fields := map[string]any{}
	if m.Data != nil {
		b, err := json.Marshal(m.Data)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &fields); err != nil {
			return nil, fmt.Errorf("message data is not an object: %w", err)
		}
	}
	fields["session"] = m.Session
	fields["type"] = m.Type

	b, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	frame := &structpb.Struct{}
	if err := protojson.Unmarshal(b, frame); err != nil {
		return nil, err
	}
	return frame, nil
}
