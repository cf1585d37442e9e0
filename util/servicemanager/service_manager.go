package servicemanager

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/kasflow/txbuilder/errors"
	"github.com/kasflow/txbuilder/ulogger"
	"golang.org/x/sync/errgroup"
)

// Service is the lifecycle contract every managed service implements.
type Service interface {
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
	Init(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type serviceWrapper struct {
	name     string
	instance Service
}

var (
	mu        sync.RWMutex
	listeners []string
)

// ServiceManager manages the lifecycle of services, providing coordinated
// startup, shutdown and signal handling.
type ServiceManager struct {
	services   []serviceWrapper
	logger     ulogger.Logger
	Ctx        context.Context
	cancelFunc context.CancelFunc
}

func NewServiceManager(ctx context.Context, logger ulogger.Logger) *ServiceManager {
	ctx, cancelFunc := context.WithCancel(ctx)

	sm := &ServiceManager{
		services:   make([]serviceWrapper, 0),
		logger:     logger,
		Ctx:        ctx,
		cancelFunc: cancelFunc,
	}

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		<-sigs
		sm.logger.Infof("🟠 Received shutdown signal. Stopping services...")
		sm.cancelFunc()
	}()

	return sm
}

// AddListenerInfo adds a listener name to the global listeners list in a thread-safe manner.
func AddListenerInfo(name string) {
	mu.Lock()
	defer mu.Unlock()

	listeners = append(listeners, name)
}

// GetListenerInfos returns a sorted copy of all registered listener names.
func GetListenerInfos() []string {
	mu.RLock()
	defer mu.RUnlock()

	sortedListeners := make([]string, len(listeners))
	copy(sortedListeners, listeners)
	sort.Strings(sortedListeners)

	return sortedListeners
}

func (sm *ServiceManager) AddService(name string, service Service) {
	sm.services = append(sm.services, serviceWrapper{
		name:     name,
		instance: service,
	})
}

// ForceShutdown triggers an immediate shutdown of all services.
func (sm *ServiceManager) ForceShutdown() {
	sm.cancelFunc()
}

// StartAllAndWait starts all services and waits for them to complete or error.
// If any service errors, all other services are stopped gracefully and the error is returned.
func (sm *ServiceManager) StartAllAndWait() error {
	// Init all services in series (not in the background)
	for _, service := range sm.services {
		select {
		case <-sm.Ctx.Done():
			return sm.Ctx.Err()

		default:
			sm.logger.Infof("⚪️ Initializing service %s...", service.name)

			if err := service.instance.Init(sm.Ctx); err != nil {
				return err
			}
		}
	}

	g, ctx := errgroup.WithContext(sm.Ctx)

	for _, service := range sm.services {
		s := service

		select {
		case <-ctx.Done():
			return ctx.Err()

		default:
			sm.logger.Infof("🟢 Starting service %s...", s.name)

			g.Go(func() error {
				return s.instance.Start(ctx)
			})
		}
	}

	err := g.Wait()
	if err != nil {
		sm.logger.Errorf("Received error: %v", err)
	}

	for i := len(sm.services) - 1; i >= 0; i-- {
		service := sm.services[i]

		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)

		sm.logger.Infof("🟠 Stopping service %s...", service.name)

		if stopErr := service.instance.Stop(stopCtx); stopErr != nil {
			sm.logger.Warnf("[%s] Failed to stop service: %v", service.name, stopErr)
		} else {
			sm.logger.Infof("[%s] Service stopped gracefully", service.name)
		}

		stopCancel()
	}

	sm.logger.Infof("🛑 All services stopped.")

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// HealthHandler aggregates health status from all registered services.
// It returns HTTP 503 if any service is unhealthy, otherwise HTTP 200.
func (sm *ServiceManager) HealthHandler(ctx context.Context, checkLiveness bool) (int, string, error) {
	overallStatus := http.StatusOK
	msgs := make([]string, 0, len(sm.services))

	for _, service := range sm.services {
		status, details, err := service.instance.Health(ctx, checkLiveness)
		if err != nil || status != http.StatusOK {
			overallStatus = http.StatusServiceUnavailable
		}

		msgs = append(msgs, fmt.Sprintf(`{"service": "%s", "status": "%d", "dependencies": [%s]}`, service.name, status, details))
	}

	return overallStatus, fmt.Sprintf(`{"status": "%d", "services": [%s]}`, overallStatus, strings.Join(msgs, ",\n")), nil
}
