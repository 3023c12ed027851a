package tally_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/adapters/tally"
	"github.com/ShrishPande/tallyinsight/internal/apperrors"
	"github.com/ShrishPande/tallyinsight/pkg/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestClient(options ...tally.ClientOption) *tally.Client {
	base := []tally.ClientOption{
		tally.WithHTTPClient(&http.Client{Timeout: 2 * time.Second}),
		tally.WithRateLimit(0),
	}
	return tally.NewClient(append(base, options...)...)
}

func TestCheckReachable_Success(t *testing.T) {
	var gotBody, gotContentType, gotOrigin, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotOrigin = r.Header.Get("Origin")
		_, _ = w.Write([]byte("<ENVELOPE/>"))
	}))
	defer srv.Close()

	client := newTestClient(tally.WithOrigin("http://dashboard.local"))
	assert.True(t, client.CheckReachable(context.Background(), srv.URL))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "text/xml", gotContentType)
	assert.Equal(t, "http://dashboard.local", gotOrigin)
	assert.Equal(t, envelope.ReachabilityRequest(), gotBody)
}

func TestWithTracerProvider_RecordsClientSpan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("Traceparent"), "trace context is propagated to Tally")
		_, _ = w.Write([]byte("<ENVELOPE/>"))
	}))
	defer srv.Close()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator()) })

	ctx, parent := tp.Tracer("test").Start(context.Background(), "parent")
	assert.True(t, newTestClient(tally.WithTracerProvider(tp)).CheckReachable(ctx, srv.URL))
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "HTTP POST", spans[0].Name())
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestCheckReachable_NonXMLBodyStillReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("TallyPrime Server is Running"))
	}))
	defer srv.Close()

	assert.True(t, newTestClient().CheckReachable(context.Background(), srv.URL))
}

func TestCheckReachable_Failures(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		assert.False(t, newTestClient().CheckReachable(context.Background(), srv.URL))
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		assert.False(t, newTestClient().CheckReachable(context.Background(), url))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		client := newTestClient(tally.WithTimeout(50 * time.Millisecond))
		assert.False(t, client.CheckReachable(context.Background(), srv.URL))
	})

	t.Run("invalid url", func(t *testing.T) {
		assert.False(t, newTestClient().CheckReachable(context.Background(), "://not a url"))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.False(t, newTestClient().CheckReachable(ctx, "http://127.0.0.1:9"))
	})
}

func TestSend_ParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<ENVELOPE><BODY><COMPANY NAME="Acme"/></BODY></ENVELOPE>`))
	}))
	defer srv.Close()

	doc, err := newTestClient().Send(context.Background(), srv.URL, envelope.ExportDataRequest(envelope.ReportListOfCompanies))
	require.NoError(t, err)
	assert.Equal(t, "Acme", doc.First("COMPANY").Attr("NAME"))
}

func TestSend_Errors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := newTestClient().Send(context.Background(), srv.URL, "<ENVELOPE/>")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrTransport)

		var te *apperrors.TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
	})

	t.Run("network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newTestClient().Send(context.Background(), url, "<ENVELOPE/>")
		assert.ErrorIs(t, err, apperrors.ErrTransport)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<ENVELOPE><BODY>"))
		}))
		defer srv.Close()

		_, err := newTestClient().Send(context.Background(), srv.URL, "<ENVELOPE/>")
		assert.ErrorIs(t, err, apperrors.ErrMalformedResponse)
		assert.NotErrorIs(t, err, apperrors.ErrTransport)
	})
}

func TestSend_NoRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient().Send(context.Background(), srv.URL, "<ENVELOPE/>")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
