package logging

import (
	"github.com/Station-Manager/gqlkit/config"
	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// fluentPoster is the part of *fluent.Fluent the writer needs.
type fluentPoster interface {
	Post(tag string, message interface{}) error
	Close() error
}

// fluentWriter forwards each zerolog JSON line to Fluent Bit / fluentd,
// tagged with the record level under the configured prefix.
type fluentWriter struct {
	client fluentPoster
}

func newFluentWriter(cfg config.FluentConfig) (*fluentWriter, error) {
	// In async mode the connection is made in the background on first Post.
	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      cfg.Async,
	})
	if err != nil {
		return nil, err
	}
	return &fluentWriter{client: client}, nil
}

func (w *fluentWriter) Write(p []byte) (int, error) {
	var record map[string]any
	if err := json.Unmarshal(p, &record); err != nil {
		return 0, err
	}

	tag, _ := record[zerolog.LevelFieldName].(string)
	if tag == emptyString {
		tag = "log"
	}

	if err := w.client.Post(tag, record); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *fluentWriter) Close() error {
	return w.client.Close()
}
