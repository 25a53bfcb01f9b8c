package testfixtures

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/course-scheduler/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("snap"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("snap")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLogger sets the logger handed to every service.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// NewScheduler builds a scheduler over source, falling back to the fixture
// catalog when source is nil. It panics when the catalog cannot be loaded,
// which only happens when a test passes a failing source on purpose; such
// tests should call application.NewScheduler directly.
func (f *ServiceFactory) NewScheduler(source application.CatalogSource) *application.Scheduler {
	if source == nil {
		source = StaticCatalog(CatalogRecords())
	}
	sched, err := application.NewScheduler(context.Background(), source, f.Logger)
	if err != nil {
		panic(err)
	}
	return sched
}

// SnapshotServiceDeps captures dependencies for constructing a snapshot service.
type SnapshotServiceDeps struct {
	Snapshots   application.SnapshotRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewSnapshotService builds a snapshot service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewSnapshotService(deps SnapshotServiceDeps) *application.SnapshotService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	logger := deps.Logger
	if logger == nil {
		logger = f.Logger
	}
	return application.NewSnapshotService(deps.Snapshots, idGen, now, logger)
}
