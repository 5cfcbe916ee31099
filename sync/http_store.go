package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	stdsync "sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/logger"
	"github.com/jobsync/jobsync/common/models"
)

const xmlContentType = "application/xml"

type HTTPStoreConfig struct {
	// Endpoint is the base URL of the CI server, e.g. "https://ci.example.com".
	Endpoint string
	// Username and APIToken authenticate requests via HTTP basic auth.
	// Both may be empty for an unsecured server.
	Username string
	APIToken string
	// RetryMax caps transport-level retries per request. Negative disables
	// retries; zero selects the default.
	RetryMax int
}

const defaultRetryMax = 4

// HTTPStore is a Store implementation that manages jobs through the CI
// server's HTTP API. Requests are retried on transient transport failures;
// HTTP status codes are mapped to coded errors so callers can distinguish
// confirmed absence from a failed probe.
type HTTPStore struct {
	config          HTTPStoreConfig
	retryableClient *retryablehttp.Client
	log             logger.Log

	crumbMu      stdsync.Mutex
	crumbFetched bool
	crumbField   string
	crumbValue   string
}

func NewHTTPStore(config HTTPStoreConfig, logFactory logger.LogFactory) (*HTTPStore, error) {
	log := logFactory("HTTPStore")
	if config.Endpoint == "" {
		return nil, gerror.NewErrValidationFailed("error server endpoint must be set")
	}
	if _, err := url.Parse(config.Endpoint); err != nil {
		return nil, gerror.NewErrValidationFailed(fmt.Sprintf("error invalid server endpoint %q", config.Endpoint)).Wrap(err)
	}
	retryMax := config.RetryMax
	if retryMax == 0 {
		retryMax = defaultRetryMax
	} else if retryMax < 0 {
		retryMax = 0
	}

	// Create a separate HTTP client to configure; do not share HTTP clients
	// between instances so that each store can have separate authentication.
	retryableClient := retryablehttp.NewClient()
	retryableClient.RetryWaitMin = time.Millisecond * 100
	retryableClient.RetryWaitMax = time.Second * 5
	retryableClient.RetryMax = retryMax
	retryableClient.Logger = NewLeveledLogger(log) // use adaptor to get log level support
	retryableClient.HTTPClient = &http.Client{}

	return &HTTPStore{
		config:          config,
		retryableClient: retryableClient,
		log:             log,
	}, nil
}

func (s *HTTPStore) Exists(ctx context.Context, name models.JobName) (bool, error) {
	status, _, err := s.doRequest(ctx, "GET", fmt.Sprintf("job/%s/api/json", url.PathEscape(name.String())), nil)
	if err != nil {
		return false, errors.Wrapf(err, "error checking existence of job %q", name)
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, gerror.NewErrUnauthorized(fmt.Sprintf("error checking existence of job %q: not authorized (HTTP %d)", name, status))
	default:
		return false, gerror.NewErrHttpOperationFailed(status, fmt.Sprintf("error checking existence of job %q: server returned HTTP %d", name, status))
	}
}

func (s *HTTPStore) Create(ctx context.Context, name models.JobName, config []byte) error {
	path := fmt.Sprintf("createItem?name=%s", url.QueryEscape(name.String()))
	status, body, err := s.doRequest(ctx, "POST", path, config)
	if err != nil {
		return errors.Wrapf(err, "error creating job %q", name)
	}
	if status != http.StatusOK {
		return gerror.NewErrHttpOperationFailed(status, fmt.Sprintf("error creating job %q: server returned HTTP %d: %s", name, status, summarize(body)))
	}
	return nil
}

func (s *HTTPStore) Update(ctx context.Context, name models.JobName, config []byte) error {
	path := fmt.Sprintf("job/%s/config.xml", url.PathEscape(name.String()))
	status, body, err := s.doRequest(ctx, "POST", path, config)
	if err != nil {
		return errors.Wrapf(err, "error updating job %q", name)
	}
	if status != http.StatusOK {
		return gerror.NewErrHttpOperationFailed(status, fmt.Sprintf("error updating job %q: server returned HTTP %d: %s", name, status, summarize(body)))
	}
	return nil
}

// doRequest performs an HTTP request against the server and returns the
// status code and buffered response body. No status code inspection is made.
func (s *HTTPStore) doRequest(ctx context.Context, verb string, path string, body []byte) (int, []byte, error) {
	req, err := retryablehttp.NewRequest(verb, s.makeURL(path), body)
	if err != nil {
		return -1, nil, errors.Wrap(err, "error creating request")
	}
	req = req.WithContext(ctx)
	if body != nil {
		req.Header.Set("Content-Type", xmlContentType)
	}
	if s.config.Username != "" {
		req.SetBasicAuth(s.config.Username, s.config.APIToken)
	}
	if verb == "POST" {
		field, value, err := s.crumb(ctx)
		if err != nil {
			return -1, nil, err
		}
		if field != "" {
			req.Header.Set(field, value)
		}
	}

	res, err := s.retryableClient.Do(req)
	if err != nil {
		return -1, nil, errors.Wrap(err, "error making request")
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return -1, nil, errors.Wrap(err, "error reading response body")
	}
	return res.StatusCode, resBody, nil
}

// crumb returns the server's CSRF crumb header, fetching it on first use.
// A server with crumb issuing disabled (HTTP 404) yields an empty field.
func (s *HTTPStore) crumb(ctx context.Context) (string, string, error) {
	s.crumbMu.Lock()
	defer s.crumbMu.Unlock()
	if s.crumbFetched {
		return s.crumbField, s.crumbValue, nil
	}

	req, err := retryablehttp.NewRequest("GET", s.makeURL("crumbIssuer/api/json"), nil)
	if err != nil {
		return "", "", errors.Wrap(err, "error creating crumb request")
	}
	req = req.WithContext(ctx)
	if s.config.Username != "" {
		req.SetBasicAuth(s.config.Username, s.config.APIToken)
	}
	res, err := s.retryableClient.Do(req)
	if err != nil {
		return "", "", errors.Wrap(err, "error fetching CSRF crumb")
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		var doc struct {
			Crumb             string `json:"crumb"`
			CrumbRequestField string `json:"crumbRequestField"`
		}
		if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
			return "", "", errors.Wrap(err, "error decoding CSRF crumb response")
		}
		s.crumbField = doc.CrumbRequestField
		s.crumbValue = doc.Crumb
	case http.StatusNotFound:
		// Crumb issuing is disabled on this server.
	default:
		return "", "", gerror.NewErrHttpOperationFailed(res.StatusCode, fmt.Sprintf("error fetching CSRF crumb: server returned HTTP %d", res.StatusCode))
	}
	s.crumbFetched = true
	return s.crumbField, s.crumbValue, nil
}

func (s *HTTPStore) makeURL(path string) string {
	return strings.TrimSuffix(s.config.Endpoint, "/") + "/" + path
}

// summarize trims a response body down to something that can be embedded in
// an error message.
func summarize(body []byte) string {
	const max = 200
	text := strings.TrimSpace(string(body))
	if len(text) > max {
		text = text[:max] + "..."
	}
	return text
}
