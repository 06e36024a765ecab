package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"treedep/nlp/parser/dependency"
	"treedep/nlp/parser/headfinder"
	nlp "treedep/nlp/types"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const (
	DEFAULT_ADDR     = ":8080"
	REQUEST_ID       = "X-Request-Id"
	MAX_REQUEST_SIZE = 32 << 20

	ENV_ADDR         = "TREEDEP_ADDR"
	ENV_CONVERTER    = "TREEDEP_CONVERTER"
	ENV_CORS_ORIGINS = "TREEDEP_CORS_ORIGINS"

	// MAX_CONVERTERS bounds the converters kept for per-request formats
	MAX_CONVERTERS = 16
)

var ErrConverterNotServed = errors.New("converter not served")

// ServeConfig is the configuration of the conversion service
type ServeConfig struct {
	Addr      string
	Converter string
	Origins   string
	Workers   int
}

var serveConfig = ServeConfig{
	Addr:      DEFAULT_ADDR,
	Converter: DEFAULT_CONVERTER,
	Origins:   "*",
	Workers:   DEFAULT_WORKERS,
}

// LoadEnv loads .env if present and lets TREEDEP_* variables override the
// settings whose flag was not given on the command line
func (c *ServeConfig) LoadEnv(flags *flag.FlagSet) {
	_ = godotenv.Load()
	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	override := func(flagName, env string, target *string) {
		if value := strings.TrimSpace(os.Getenv(env)); value != "" && !set[flagName] {
			*target = value
		}
	}
	override("addr", ENV_ADDR, &c.Addr)
	override("f", ENV_CONVERTER, &c.Converter)
	override("origins", ENV_CORS_ORIGINS, &c.Origins)
}

// AllowedOrigins splits the comma separated origin list
func (c *ServeConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

type convertRequest struct {
	Format    string `json:"format"`
	Trees     string `json:"trees"`
	Converter string `json:"converter,omitempty"`
	Output    string `json:"output,omitempty"`
}

type sentenceJSON struct {
	ID        int    `json:"id"`
	Conll     string `json:"conll"`
	GapDegree int    `json:"gap_degree"`
}

type convertResponse struct {
	Converter string         `json:"converter"`
	Sentences []sentenceJSON `json:"sentences"`
}

type convertersResponse struct {
	Default       string   `json:"default"`
	Tasks         []string `json:"tasks"`
	HeadFinders   []string `json:"head_finders"`
	InputFormats  []string `json:"input_formats"`
	OutputFormats []string `json:"output_formats"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// Server converts trees posted as JSON. The configured converter may carry
// head finder parameters; a request may only name a plain task-headfinder
// pair. Converters are built once per format and shared between requests.
type Server struct {
	config ServeConfig

	defaultConv *dependency.Converter
	converters  *lru.Cache[string, *dependency.Converter]

	registry  *prometheus.Registry
	sentences *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  prometheus.Histogram
}

func NewServer(config ServeConfig) (*Server, error) {
	conv, err := dependency.NewConverterFromFormat(config.Converter)
	if err != nil {
		return nil, fmt.Errorf("default converter: %w", err)
	}
	cache, err := lru.New[string, *dependency.Converter](MAX_CONVERTERS)
	if err != nil {
		return nil, err
	}
	s := &Server{
		config:      config,
		defaultConv: conv,
		converters:  cache,
		registry:    prometheus.NewRegistry(),
	}
	factory := promauto.With(s.registry)
	s.sentences = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "treedep_converted_sentences_total",
		Help: "Sentences converted to dependency forests",
	}, []string{"converter"})
	s.failures = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "treedep_conversion_failures_total",
		Help: "Requests rejected, by reason",
	}, []string{"reason"})
	s.duration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "treedep_convert_duration_seconds",
		Help:    "Time to convert the trees of one request",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
	})
	return s, nil
}

// servable reports whether format is a known task and head finder type
// without parameters
func servable(format string) bool {
	task, finder := dependency.ParseFormat(format)
	return slices.Contains(dependency.Tasks(), task) && slices.Contains(headfinder.Types(), finder)
}

func (s *Server) converter(format string) (*dependency.Converter, error) {
	if format == s.config.Converter {
		return s.defaultConv, nil
	}
	if !servable(format) {
		return nil, fmt.Errorf("%w: %q, expected task-headfinder with task in %v and head finder in %v",
			ErrConverterNotServed, format, dependency.Tasks(), headfinder.Types())
	}
	if conv, exists := s.converters.Get(format); exists {
		return conv, nil
	}
	conv, err := dependency.NewConverterFromFormat(format)
	if err != nil {
		return nil, err
	}
	s.converters.Add(format, conv)
	return conv, nil
}

// process converts the trees of req and renders every forest in the requested format
func (s *Server) process(ctx context.Context, req *convertRequest) (*convertResponse, int, error) {
	format := req.Converter
	if format == "" {
		format = s.config.Converter
	}
	conv, err := s.converter(format)
	if err != nil {
		s.failures.WithLabelValues("converter").Inc()
		return nil, http.StatusBadRequest, err
	}
	inputFormat := req.Format
	if inputFormat == "" {
		inputFormat = FORMAT_BRACKET
	}
	outputFormat := req.Output
	if outputFormat == "" {
		outputFormat = FORMAT_CONLL
	}
	write, err := WriterFor(outputFormat)
	if err != nil {
		s.failures.WithLabelValues("format").Inc()
		return nil, http.StatusBadRequest, err
	}
	scanner, err := OpenTrees(strings.NewReader(req.Trees), inputFormat)
	if err != nil {
		s.failures.WithLabelValues("format").Inc()
		return nil, http.StatusBadRequest, err
	}
	var trees []*nlp.Tree
	for scanner.Scan() {
		trees = append(trees, scanner.Tree())
	}
	if err := scanner.Err(); err != nil {
		s.failures.WithLabelValues("syntax").Inc()
		return nil, http.StatusBadRequest, err
	}

	start := time.Now()
	forests, _, err := ConvertTrees(ctx, conv, trees, s.config.Workers, false)
	s.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		var convErr *dependency.ConversionError
		if errors.As(err, &convErr) {
			s.failures.WithLabelValues("conversion").Inc()
			return nil, http.StatusUnprocessableEntity, err
		}
		return nil, http.StatusInternalServerError, err
	}
	resp := &convertResponse{Converter: format, Sentences: make([]sentenceJSON, len(forests))}
	for i, forest := range forests {
		var b strings.Builder
		if err := write(&b, forest); err != nil {
			return nil, http.StatusInternalServerError, err
		}
		resp.Sentences[i] = sentenceJSON{ID: forest.ID, Conll: b.String(), GapDegree: forest.GapDegree()}
	}
	s.sentences.WithLabelValues(format).Add(float64(len(forests)))
	return resp, http.StatusOK, nil
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	var req convertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MAX_REQUEST_SIZE)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Trees) == "" {
		writeError(w, http.StatusBadRequest, "no trees given")
		return
	}
	resp, status, err := s.process(r.Context(), &req)
	if err != nil {
		log.Printf("[%s] %v", w.Header().Get(REQUEST_ID), err)
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleConverters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	writeJSON(w, http.StatusOK, convertersResponse{
		Default:       s.config.Converter,
		Tasks:         dependency.Tasks(),
		HeadFinders:   headfinder.Types(),
		InputFormats:  InputFormats(),
		OutputFormats: OutputFormats(),
	})
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(REQUEST_ID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(REQUEST_ID, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/convert", s.handleConvert)
	mux.HandleFunc("/api/converters", s.handleConverters)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	c := cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", REQUEST_ID},
		ExposedHeaders: []string{REQUEST_ID},
	})
	return withRequestID(c.Handler(mux))
}

func ServeConfigOut() {
	log.Println("Configuration")
	log.Printf("Address:\t\t%s", serveConfig.Addr)
	log.Printf("Converter:\t\t%s", serveConfig.Converter)
	log.Printf("Workers:\t\t%d", serveConfig.Workers)
	log.Printf("CORS origins:\t%s", serveConfig.Origins)
	log.Println()
}

func Serve(cmd *commander.Command, args []string) error {
	serveConfig.LoadEnv(&cmd.Flag)
	if allOut {
		ServeConfigOut()
	}
	server, err := NewServer(serveConfig)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              serveConfig.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errs := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", serveConfig.Addr)
		errs <- httpServer.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func ServeCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Serve,
		UsageLine: "serve [options]",
		Short:     "runs the conversion HTTP service",
		Long: `
runs the conversion HTTP service

	POST /api/convert     body: {"format":"bracket","trees":"...","converter":"...","output":"conll"}
	GET  /api/converters
	GET  /metrics

a request converter is a plain task-headfinder pair; head finder parameters
are only accepted in -f

settings may also come from the environment or a .env file:
	` + ENV_ADDR + `, ` + ENV_CONVERTER + `, ` + ENV_CORS_ORIGINS + `

	$ ./treedep serve -addr :8080 -f <task-headfinder> [options]

`,
		Flag: *flag.NewFlagSet("serve", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&serveConfig.Addr, "addr", DEFAULT_ADDR, "Listen address")
	cmd.Flag.StringVar(&serveConfig.Converter, "f", DEFAULT_CONVERTER, "Default converter as task-headfinder")
	cmd.Flag.StringVar(&serveConfig.Origins, "origins", "*", "Comma separated allowed CORS origins")
	cmd.Flag.IntVar(&serveConfig.Workers, "j", DEFAULT_WORKERS, "Sentences converted concurrently per request")
	return cmd
}
