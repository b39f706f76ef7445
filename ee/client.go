package ee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"

	"github.com/geowatt/s1graph/service"
)

const (
	defaultEndpoint = "https://earthengine.googleapis.com"
	scope           = "https://www.googleapis.com/auth/earthengine"
)

// ClientConfig configures the connection to the platform
type ClientConfig struct {
	// Endpoint of the platform REST API (defaults to the public one)
	Endpoint string
	// Project is the cloud project evaluating the expressions
	Project string
	// CredentialsFile is a service-account key file. When empty and Token is
	// empty too, the application default credentials are used.
	CredentialsFile string
	// Token is a static bearer token, bypassing oauth2
	Token string
	// RetryWait and MaxRetries control the retry of temporary errors
	RetryWait  time.Duration
	MaxRetries int
}

// Client evaluates expression graphs on the platform
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient connects to the platform using the configured credentials
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Project == "" {
		return nil, fmt.Errorf("NewClient: missing project")
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}

	c := Client{cfg: cfg}
	if cfg.Token == "" {
		if cfg.CredentialsFile != "" {
			data, err := os.ReadFile(cfg.CredentialsFile)
			if err != nil {
				return nil, fmt.Errorf("NewClient.%w", err)
			}
			creds, err := google.CredentialsFromJSON(ctx, data, scope)
			if err != nil {
				return nil, fmt.Errorf("NewClient.%w", err)
			}
			c.http = oauth2.NewClient(ctx, creds.TokenSource)
		} else {
			ts, err := google.DefaultTokenSource(ctx, scope)
			if err != nil {
				return nil, fmt.Errorf("NewClient.%w", err)
			}
			c.http = oauth2.NewClient(ctx, ts)
		}
	}
	return &c, nil
}

type computeRequest struct {
	Expression *Expression `json:"expression"`
}

type computeResponse struct {
	Result json.RawMessage `json:"result"`
}

// ComputeValue serializes the expression graph of the handle, evaluates it on
// the platform and returns the raw json result. Temporary errors are retried.
func (c *Client) ComputeValue(ctx context.Context, o Object) (json.RawMessage, error) {
	expr, err := Serialize(o)
	if err != nil {
		return nil, fmt.Errorf("ComputeValue.%w", err)
	}
	body, err := json.Marshal(computeRequest{Expression: expr})
	if err != nil {
		return nil, fmt.Errorf("ComputeValue.%w", err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/value:compute", c.cfg.Endpoint, c.cfg.Project)
	var result json.RawMessage
	err = service.Retriable(ctx, func() error {
		resp, err := c.post(ctx, url, body)
		if err != nil {
			return service.MakeTemporary(err)
		}
		defer resp.Body.Close()
		if err := googleapi.CheckResponse(resp); err != nil {
			return err
		}
		respBody, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return service.MakeTemporary(err)
		}
		var cr computeResponse
		if err := json.Unmarshal(respBody, &cr); err != nil {
			return service.MakeFatal(err)
		}
		result = cr.Result
		return nil
	}, c.cfg.RetryWait, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("ComputeValue.%w", err)
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	if c.http == nil {
		return service.HTTPPostWithAuth(ctx, url, bytes.NewReader(body), "", "", c.cfg.Token)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	return c.http.Do(req)
}

// ComputeAll evaluates the named expression graphs concurrently and returns
// the raw json result of each. On error, the first one is returned.
func (c *Client) ComputeAll(ctx context.Context, objects map[string]Object) (map[string]json.RawMessage, error) {
	keys := make([]string, 0, len(objects))
	for k := range objects {
		keys = append(keys, k)
	}
	results := make([]json.RawMessage, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			r, err := c.ComputeValue(gctx, objects[k])
			if err != nil {
				return fmt.Errorf("ComputeAll[%s].%w", k, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := make(map[string]json.RawMessage, len(keys))
	for i, k := range keys {
		m[k] = results[i]
	}
	return m, nil
}
