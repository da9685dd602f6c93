package logging

import (
	"io"
	"strconv"
	"testing"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

// newBenchService constructs a Service with a discard logger at the given level.
// It bypasses Initialize() to avoid I/O setup and focuses on pure logging overhead.
func newBenchService(level zerolog.Level) *Service {
	s := &Service{}
	logger := zerolog.New(io.Discard).Level(level)
	s.logger.Store(&logger)
	s.levelName.Store(level.String())
	s.isInitialized.Store(true)
	return s
}

func makeDetailedChain(depth int) error {
	if depth <= 0 {
		return nil
	}
	err := smerrors.New(smerrors.Op("op_0")).Msg("root cause message")
	for i := 1; i < depth; i++ {
		op := "op_" + strconv.Itoa(i)
		err = smerrors.New(smerrors.Op(op)).Err(err).Msg("wrapped message")
	}
	return err
}

func BenchmarkInfo(b *testing.B) {
	log := newBenchService(zerolog.InfoLevel).Logger()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("hello")
	}
}

func BenchmarkInfoFields_Bound(b *testing.B) {
	log := newBenchService(zerolog.InfoLevel).Logger().
		Child(Fields{"operationName": "GetUser", "userId": "u1"})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.InfoFields(Fields{"k": "v", "n": i}, "hello")
	}
}

func BenchmarkDebug_Filtered(b *testing.B) {
	log := newBenchService(zerolog.InfoLevel).Logger()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.DebugFields(Fields{"n": i}, "never written")
	}
}

func BenchmarkChild(b *testing.B) {
	root := newBenchService(zerolog.InfoLevel).Logger().Child(Fields{"service": "api"})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = root.Child(Fields{"operationName": "GetUser"})
	}
}

func BenchmarkLogError_DetailedChain6(b *testing.B) {
	log := newBenchService(zerolog.ErrorLevel).Logger()
	err := makeDetailedChain(6)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.LogError(err, nil, "oops")
	}
}

func BenchmarkParallel_InfoFields(b *testing.B) {
	log := newBenchService(zerolog.InfoLevel).Logger()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			log.InfoFields(Fields{"k": "v"}, "hi")
		}
	})
}
