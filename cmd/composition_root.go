package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	httpadapter "foodrelay/internal/adapters/in/http"
	"foodrelay/internal/adapters/out/console"
	"foodrelay/internal/adapters/out/kafka"
	"foodrelay/internal/adapters/out/memory"
	"foodrelay/internal/adapters/out/nominatim"
	"foodrelay/internal/adapters/out/postgres"
	"foodrelay/internal/adapters/out/postgres/orderrepo"
	"foodrelay/internal/adapters/out/telegram"
	"foodrelay/internal/core/application/dispatch"
	"foodrelay/internal/core/application/routing"
	"foodrelay/internal/core/application/usecases/commands"
	"foodrelay/internal/core/application/usecases/queries"
	"foodrelay/internal/core/ports"
	"foodrelay/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	uowFactory ports.UnitOfWorkFactory
	orders     ports.OrderReader

	dispatcher *dispatch.Dispatcher
	optimizer  *routing.Optimizer

	closers []io.Closer
	gormDB  *gorm.DB
}

func NewCompositionRoot(cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &CompositionRoot{cfg: cfg, logger: logger}

	if err := c.openStorage(); err != nil {
		return nil, err
	}

	messenger, err := c.newMessenger()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.dispatcher, err = dispatch.NewDispatcher(messenger, cfg.DispatchConfig(), logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	geocoder, err := nominatim.NewGeocoder(cfg.GeocoderConfig(), &http.Client{}, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.optimizer, err = routing.NewOptimizer(geocoder, cfg.RouteMaxStops, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) openStorage() error {
	switch c.cfg.StorageDriver {
	case StorageMemory:
		repo := memory.NewOrderRepository()
		c.uowFactory = memory.NewUnitOfWorkFactory(repo)
		c.orders = repo
		c.logger.Warn("using in-memory storage, orders are lost on restart")
		return nil
	case StoragePostgres:
		db, err := postgres.Open(postgres.Options{DSN: c.cfg.DSN()}, c.logger)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		c.gormDB = db
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.orders = orderrepo.NewGormOrderRepository(db)
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", c.cfg.StorageDriver)
	}
}

func (c *CompositionRoot) newMessenger() (ports.Messenger, error) {
	switch c.cfg.MessengerDriver {
	case MessengerTelegram:
		return telegram.NewMessenger(telegram.Config{
			APIURL:  c.cfg.TelegramAPIURL,
			Token:   c.cfg.TelegramBotToken,
			Timeout: c.cfg.TelegramTimeout,
		}, &http.Client{})
	case MessengerKafka:
		m, err := kafka.NewMessenger(kafka.Config{
			Brokers: strings.Split(c.cfg.KafkaHost, ","),
			Topic:   c.cfg.KafkaNotificationTopic,
		})
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, m)
		return m, nil
	case MessengerConsole:
		return console.NewMessenger(os.Stdout), nil
	default:
		return nil, fmt.Errorf("unknown messenger driver %q", c.cfg.MessengerDriver)
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateListOrdersByStatusQueryHandler() queries.ListOrdersByStatusQueryHandler {
	return queries.NewListOrdersByStatusQueryHandler(c.orders)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orders)
}

func (c *CompositionRoot) CreateGetCourierRouteQueryHandler() queries.GetCourierRouteQueryHandler {
	return queries.NewGetCourierRouteQueryHandler(c.orders, c.optimizer)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateListOrdersByStatusQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetCourierRouteQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	return httpadapter.NewRouter(ctx, c.CreateHTTPServer(), c.logger)
}

func (c *CompositionRoot) CreateNotificationDrainJob() (*jobs.NotificationDrainJob, error) {
	return jobs.NewNotificationDrainJob(c.dispatcher, c.cfg.DispatchInterval, c.logger)
}

// Dispatcher exposes the notification queue so shutdown can flush it.
func (c *CompositionRoot) Dispatcher() *dispatch.Dispatcher {
	return c.dispatcher
}

// Close releases the database pool and messenger connections.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errList = append(errList, c.closers[i].Close())
	}
	c.closers = nil

	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			errList = append(errList, sqlDB.Close())
		}
		c.gormDB = nil
	}
	return errors.Join(errList...)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
