package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/kingdom-core/internal/converter"
	"github.com/napolitain/kingdom-core/internal/kingdom"
	"github.com/napolitain/kingdom-core/internal/logger"
	"github.com/napolitain/kingdom-core/internal/savegame"
	"github.com/napolitain/kingdom-core/internal/store"
)

var (
	port       = flag.Int("port", 50051, "The server port")
	dataDir    = flag.String("data", "data", "Path to data directory")
	autosaveDB = flag.String("autosave-db", "", "Slot database for EndDay autosaves (disabled when empty)")
	autosaveIv = flag.Duration("autosave-interval", time.Minute, "Minimum time between autosaves")
)

// autosaveSlot is the slot EndDay results are written to
const autosaveSlot = "autosave"

// server implements KingdomServiceServer
type server struct {
	reg      *kingdom.Registries
	autosave *store.Autosaver
}

// codecStatus maps save codec errors to gRPC status codes
func codecStatus(err error) error {
	switch {
	case errors.Is(err, savegame.ErrVersionTooNew):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, savegame.ErrParse):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func (s *server) session(in *structpb.Struct) (*kingdom.Session, error) {
	state, err := converter.ProtoToGameState(in)
	if err != nil {
		return nil, codecStatus(err)
	}
	return kingdom.Resume(s.reg, state), nil
}

// Summarize implements the Summarize RPC
func (s *server) Summarize(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(in)
	if err != nil {
		return nil, err
	}
	return converter.MapToProto(sess.Summarize().Document()), nil
}

// EndDay implements the EndDay RPC
func (s *server) EndDay(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(in)
	if err != nil {
		return nil, err
	}
	report := sess.EndDay()

	if s.autosave != nil {
		saved, err := s.autosave.Save(ctx, sess.State())
		if err != nil {
			logger.Log.WithError(err).Warn("autosave failed")
		} else if saved {
			logger.Log.WithFields(logrus.Fields{"slot": s.autosave.Slot(), "day": report.Day}).Info("autosaved")
		}
	}

	return converter.GameStateToProto(sess.State()), nil
}

// logRequests logs every unary call with its duration and status code
func logRequests(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	entry := logger.Log.WithFields(logrus.Fields{
		"method":   info.FullMethod,
		"code":     status.Code(err).String(),
		"duration": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Warn("request failed")
	} else {
		entry.Info("request handled")
	}
	return resp, err
}

func main() {
	flag.Parse()
	logger.Init(os.Stderr)
	log := logger.Log

	reg, err := kingdom.LoadRegistries(*dataDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to load content")
	}
	log.WithFields(logrus.Fields{
		"buildings": reg.Buildings.Len(),
		"factions":  len(reg.Factions.IDs()),
		"research":  len(reg.Research.IDs()),
	}).Info("Loaded content")

	srv := &server{reg: reg}
	if *autosaveDB != "" {
		st, err := store.Open(*autosaveDB)
		if err != nil {
			log.WithError(err).Fatal("Failed to open autosave database")
		}
		defer st.Close()
		srv.autosave = store.NewAutosaver(st, autosaveSlot, *autosaveIv)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		log.WithError(err).Fatal("Failed to listen")
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(logRequests))
	RegisterKingdomServiceServer(s, srv)

	log.WithField("port", *port).Info("gRPC server listening")
	if err := s.Serve(lis); err != nil {
		log.WithError(err).Fatal("Failed to serve")
	}
}
