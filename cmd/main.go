package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"net/url"
	"os"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/aukilabs/gecko/camera"
	"github.com/aukilabs/gecko/featureflag"
	"github.com/aukilabs/gecko/fieldio"
	"github.com/aukilabs/gecko/geometry"
	geckohttp "github.com/aukilabs/gecko/http"
	"github.com/aukilabs/gecko/models"
	"github.com/aukilabs/gecko/modules"
	"github.com/aukilabs/gecko/modules/orbit"
	"github.com/aukilabs/gecko/modules/probe"
	"github.com/aukilabs/gecko/procedural"
	"github.com/aukilabs/gecko/scalarfield"
	"github.com/aukilabs/gecko/smoketest"
	gwebsocket "github.com/aukilabs/gecko/websocket"
	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/events"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

var (
	// The Gecko version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "gecko_info",
		Help:        "Gecko information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr               string        `cli:""        env:"GECKO_ADDR"                 help:"Listening address for client connections."`
	AdminAddr          string        `cli:""        env:"GECKO_ADMIN_ADDR"           help:"Admin listening address."`
	PublicEndpoint     string        `cli:""        env:"GECKO_PUBLIC_ENDPOINT"      help:"The public endpoint where this Gecko server is reachable."`
	LogLevel           string        `cli:""        env:"GECKO_LOG_LEVEL"            help:"Log level (debug|info|warning|error)."`
	LogIndent          bool          `cli:""        env:"GECKO_LOG_INDENT"           help:"Indent logs."`
	ServerID           string        `cli:""        env:"GECKO_SERVER_ID"            help:"The identifier prefixed to global session ids."`
	Field              fieldConfig   `cli:""        env:"-"                          help:"Field configuration."`
	ClientIdleTimeout  time.Duration `cli:",hidden" env:"GECKO_CLIENT_IDLE_TIMEOUT"  help:"Time until an idle client will be disconnected"`
	LogSummaryInterval time.Duration `cli:",hidden" env:"GECKO_LOG_SUMMARY_INTERVAL" help:"The duration between each log summary by connection."`
	Events             eventsConfig  `cli:",hidden" env:"-"                          help:"Event pusher configuration."`
	FeatureFlags       []string      `cli:",hidden" env:"GECKO_FEATURE_FLAGS"        help:"Comma separated feature flags"`
	Version            bool          `cli:""        env:"-"                          help:"Show version."`
	Help               bool          `cli:""        env:"-"                          help:"Show help."`
}

type fieldConfig struct {
	File        string `cli:"" env:"GECKO_FIELD_FILE"         help:"The text file the field is loaded from. A procedural field is generated when empty."`
	Output      string `cli:"" env:"GECKO_FIELD_OUTPUT"       help:"The text file the served field is written to."`
	BoundsMin   string `cli:"" env:"GECKO_FIELD_BOUNDS_MIN"   help:"Comma separated minimum corner of the procedural field."`
	BoundsMax   string `cli:"" env:"GECKO_FIELD_BOUNDS_MAX"   help:"Comma separated maximum corner of the procedural field."`
	Count       string `cli:"" env:"GECKO_FIELD_COUNT"        help:"Comma separated sample counts of the procedural field."`
	FillWorkers int    `cli:"" env:"GECKO_FIELD_FILL_WORKERS" help:"The number of goroutines that fill the procedural field."`
}

type eventsConfig struct {
	Endpoint      string        `cli:",hidden" env:"GECKO_EVENTS_ENDPOINT"       help:"Endpoint to where events are pushed."`
	FlushInterval time.Duration `cli:",hidden" env:"GECKO_EVENTS_FLUSH_INTERVAL" help:"The duration between each event flush."`
	BatchSize     int           `cli:",hidden" env:"GECKO_EVENTS_BATCH_SIZE"     help:"The maximum number of events sent at once."`
	QueueSize     int           `cli:",hidden" env:"GECKO_EVENTS_QUEUE_SIZE"     help:"The size of the queue where events are stored."`
}

func main() {
	conf := config{
		Addr:               ":4000",
		AdminAddr:          ":18190",
		PublicEndpoint:     "http://localhost:4000",
		LogLevel:           logs.InfoLevel.String(),
		ClientIdleTimeout:  time.Minute * 5,
		LogSummaryInterval: time.Minute,
		Field: fieldConfig{
			BoundsMin:   "-1,-1,-2",
			BoundsMax:   "1,1,2",
			Count:       "256,256,512",
			FillWorkers: runtime.NumCPU(),
		},
		Events: eventsConfig{
			FlushInterval: events.DefaultFlushInterval,
			BatchSize:     events.DefaultBatchSize,
			QueueSize:     events.DefaultQueueSize,
		},
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts Gecko server.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	transport := metrics.HTTPTransport(http.DefaultTransport)

	if conf.Events.Endpoint != "" {
		eventsPusher := events.Pusher{
			Endpoint:      conf.Events.Endpoint,
			FlushInterval: conf.Events.FlushInterval,
			BatchSize:     conf.Events.BatchSize,
			QueueSize:     conf.Events.QueueSize,
			Transport:     transport,
		}
		go eventsPusher.Start()
		defer eventsPusher.Close()

		eventsLogger := events.Logger{
			Pusher:           &eventsPusher,
			SDKType:          "gecko",
			SDKVersionFamily: version,
		}
		logs.SetLogger(eventsLogger.Log)
	}

	field, err := loadField(ctx, conf.Field)
	if err != nil {
		logs.Fatal(errors.New("loading field failed").Wrap(err))
	}

	if conf.Field.Output != "" {
		if err := writeField(conf.Field.Output, field); err != nil {
			logs.Fatal(errors.New("writing field failed").Wrap(err))
		}
	}

	featureFlags := featureflag.New(conf.FeatureFlags)
	fieldHandler := geckohttp.NewFieldHandler(field, featureFlags)
	sessions := models.SessionStore{ServerID: conf.ServerID}

	readinessCheck := func() bool {
		return ctx.Err() == nil
	}

	var service http.ServeMux
	fieldHandler.Register(&service)
	service.Handle("/health", geckohttp.HandleWithCORS(http.HandlerFunc(geckohttp.HandleHealthCheck)))
	service.Handle("/version", geckohttp.HandleWithCORS(http.HandlerFunc(geckohttp.HandleVersion(version))))
	service.Handle("/ready", geckohttp.HandleWithCORS(http.HandlerFunc(geckohttp.HandleReadyCheck(readinessCheck))))

	service.HandleFunc("/smoke-test", smoketest.HandleSmokeTest(ctx, smoketest.Options{
		Endpoint:  conf.PublicEndpoint,
		UserAgent: fmt.Sprintf("Gecko %s", version),
		Transport: transport,
	}))

	service.Handle("/camera", geckohttp.HandleWithCORS(websocket.Server{
		Handler: func(conn *websocket.Conn) {
			defer conn.Close()

			var rh gwebsocket.Handler = &gwebsocket.RealtimeHandler{
				ClientIdleTimeout: conf.ClientIdleTimeout,
				Sessions:          &sessions,
				Modules:           newModules(field, featureFlags),
				FeatureFlags:      featureFlags,
				FieldInfo:         fieldHandler.Info,
				NewCamera: func() *camera.Orbit {
					return camera.NewOrbit(camera.DefaultFrom, camera.DefaultAt)
				},
			}
			h := gwebsocket.HandlerWithLogs(rh, conf.LogSummaryInterval)
			h = gwebsocket.HandlerWithMetrics(h, conf.PublicEndpoint)
			defer h.Close()

			gwebsocket.Handle(ctx, conn, h)
		},
	}))

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", geckohttp.HandleHealthCheck)
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))
	admin.HandleFunc("/ready", geckohttp.HandleReadyCheck(readinessCheck))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("endpoint", conf.PublicEndpoint).
		WithTag("server_id", conf.ServerID).
		WithTag("field_count", fieldHandler.Info.Count).
		WithTag("feature_flags", featureFlags.List()).
		Info("starting gecko server")

	geckohttp.ListenAndServe(ctx,
		&http.Server{Addr: conf.Addr, Handler: metrics.HTTPHandler(&service,
			geckohttp.MetricsPathFormatter)},
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)
}

func newModules(field *scalarfield.Field[float32], flags featureflag.FeatureFlag) []modules.Module {
	mods := []modules.Module{
		&orbit.Module{Model: field.ModelMatrix()},
	}

	flags.IfNotSet(featureflag.FlagDisableProbeModule, func() {
		mods = append(mods, &probe.Module{Field: field})
	})
	return mods
}

func loadField(ctx context.Context, conf fieldConfig) (*scalarfield.Field[float32], error) {
	if conf.File != "" {
		f, err := os.Open(conf.File)
		if err != nil {
			return nil, errors.New("opening field file failed").
				WithTag("file_name", conf.File).
				Wrap(err)
		}
		defer f.Close()

		return fieldio.ReadText(f)
	}

	boundsMin, err := parseVec3(conf.BoundsMin)
	if err != nil {
		return nil, errors.New("invalid field bounds").Wrap(err)
	}
	boundsMax, err := parseVec3(conf.BoundsMax)
	if err != nil {
		return nil, errors.New("invalid field bounds").Wrap(err)
	}
	count, err := parseCount(conf.Count)
	if err != nil {
		return nil, errors.New("invalid field count").Wrap(err)
	}

	field, err := scalarfield.New(boundsMin, boundsMax, count[0], count[1], count[2], float32(0))
	if err != nil {
		return nil, err
	}

	if err := procedural.Fill(ctx, field, procedural.DefaultGaussians(), conf.FillWorkers); err != nil {
		return nil, err
	}
	return field, nil
}

func writeField(filename string, field *scalarfield.Field[float32]) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.New("creating field file failed").
			WithTag("file_name", filename).
			Wrap(err)
	}

	if err := fieldio.WriteText(f, field); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseVec3(s string) (geometry.Vec3[float32], error) {
	var v geometry.Vec3[float32]

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, errors.New("expected three comma separated values").WithTag("value", s)
	}

	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return v, errors.New("invalid number").WithTag("value", p).Wrap(err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseCount(s string) ([3]int, error) {
	var count [3]int

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return count, errors.New("expected three comma separated values").WithTag("value", s)
	}

	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return count, errors.New("invalid count").WithTag("value", p).Wrap(err)
		}
		count[i] = n
	}
	return count, nil
}

func validateConfig(conf config) error {
	if _, err := url.ParseRequestURI(conf.PublicEndpoint); err != nil {
		return errors.New("invalid public endpoint").Wrap(err)
	}

	if conf.ClientIdleTimeout <= 0 {
		return errors.New("client idle timeout must be positive").
			WithTag("client_idle_timeout", conf.ClientIdleTimeout)
	}

	if conf.LogSummaryInterval <= 0 {
		return errors.New("log summary interval must be positive").
			WithTag("log_summary_interval", conf.LogSummaryInterval)
	}

	return nil
}
