package writer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lukehollenback/walutomat/exchange"
	"github.com/lukehollenback/walutomat/logger"
	"github.com/lukehollenback/walutomat/poller/monitor"
	"github.com/sirupsen/logrus"
)

const (
	Name = "writer-service"
)

//
// Service represents a CSV writer service instance. It writes one row per sample of every round it
// is handed.
//
type Service struct {
	mu         *sync.Mutex
	chStopped  chan bool
	outputPath string
	outputFile *os.File
	writer     *csv.Writer
	logger     *logrus.Entry
}

//
// New instantiates a writer service for the provided output path. A nil logger falls back to one
// that discards everything.
//
func New(outputPath string, log logrus.FieldLogger) *Service {
	if log == nil {
		log = exchange.DiscardLogger()
	}

	return &Service{
		mu:         &sync.Mutex{},
		outputPath: outputPath,
		logger:     logger.WithComponent(log, Name),
	}
}

//
// Start creates (or truncates) the output file and writes the header row.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	//
	// Validate that necessary configurations have been provided.
	//
	if o.outputPath == "" {
		return nil, errors.New("the writer service has no output path")
	}

	if o.writer != nil {
		return nil, errors.New("the writer service is already running")
	}

	//
	// Create the output CSV file.
	//
	var err error

	o.outputFile, err = os.Create(o.outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	o.logger.WithField("path", o.outputPath).Info("Outputting CSV.")

	//
	// Create the CSV writer and use it to write out the header row.
	//
	o.writer = csv.NewWriter(o.outputFile)

	if err := o.writer.Write(header()); err != nil {
		_ = o.outputFile.Close()
		o.writer = nil

		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	o.writer.Flush()

	o.chStopped = make(chan bool, 1)

	chStarted := make(chan bool, 1)
	chStarted <- true

	o.logger.Info("Started.")

	return chStarted, nil
}

//
// HandleRound writes every sample of the provided round. It matches the monitor service's round
// handler signature. Rounds handed to a service that is not running are dropped.
//
func (o *Service) HandleRound(round *monitor.Round) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer == nil {
		return
	}

	for i := range round.Samples {
		if err := o.writer.Write(row(&round.Samples[i])); err != nil {
			o.logger.WithError(err).Error("Failed to write sample.")

			return
		}
	}

	o.writer.Flush()

	if err := o.writer.Error(); err != nil {
		o.logger.WithError(err).Error("Failed to flush samples.")
	}
}

//
// Stop flushes any buffered rows and closes the output file.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer == nil {
		return nil, errors.New("the writer service is not running")
	}

	o.logger.Info("Stopping...")

	//
	// Flush the CSV writer's buffer to the output file.
	//
	o.writer.Flush()

	//
	// Close the handle on the output file.
	//
	if err := o.outputFile.Close(); err != nil {
		o.logger.WithError(err).Error("Failed to close handle on output file.")
	}

	o.writer = nil
	o.outputFile = nil

	o.chStopped <- true

	return o.chStopped, nil
}

func row(s *monitor.Sample) []string {
	r := make([]string, len(columns))

	r[Timestamp] = s.Time.UTC().Format(time.RFC3339Nano)
	r[Pair] = s.Pair.String()

	if s.Err != nil {
		r[Error] = s.Err.Error()

		return r
	}

	r[Bid] = s.Quote.Bid.String()
	r[Ask] = s.Quote.Ask.String()
	r[Spread] = s.Quote.Spread().String()

	return r
}
