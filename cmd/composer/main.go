package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"

	"github.com/geowatt/s1graph/composer"
	"github.com/geowatt/s1graph/ee"
	"github.com/geowatt/s1graph/service/log"
)

type config struct {
	AppPort     string
	Endpoint    string
	Project     string
	Credentials string
	Token       string
	RetryWait   time.Duration
	MaxRetries  int
}

func newAppConfig() (*config, error) {
	appPort := flag.String("port", "8080", "composer port to use")
	endpoint := flag.String("endpoint", "", "platform REST endpoint (defaults to the public one)")
	project := flag.String("project", "", "cloud project evaluating the expressions (optional: without it, the compute endpoints are disabled)")
	credentials := flag.String("credentials", "", "service-account key file (defaults to the application default credentials)")
	token := flag.String("token", "", "static bearer token (bypasses oauth2)")
	retryWait := flag.Duration("retry-wait", 10*time.Second, "wait between retries of temporary platform errors")
	maxRetries := flag.Int("max-retries", 3, "max attempts on temporary platform errors")
	flag.Parse()

	if *appPort == "" {
		return nil, fmt.Errorf("failed to initialize port application flag")
	}
	return &config{
		AppPort:     *appPort,
		Endpoint:    *endpoint,
		Project:     *project,
		Credentials: *credentials,
		Token:       *token,
		RetryWait:   *retryWait,
		MaxRetries:  *maxRetries,
	}, nil
}

func main() {
	ctx := context.Background()
	err := run(ctx)
	if err != nil {
		log.Fatal("error", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	config, err := newAppConfig()
	if err != nil {
		return err
	}

	c := composer.Composer{}
	if config.Project != "" {
		client, err := ee.NewClient(ctx, ee.ClientConfig{
			Endpoint:        config.Endpoint,
			Project:         config.Project,
			CredentialsFile: config.Credentials,
			Token:           config.Token,
			RetryWait:       config.RetryWait,
			MaxRetries:      config.MaxRetries,
		})
		if err != nil {
			return fmt.Errorf("ee.NewClient: %w", err)
		}
		c.Client = client
	} else {
		log.Logger(ctx).Warn("no platform project is configured. The compute endpoints are disabled.")
	}

	headersOk := handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST"})

	log.Logger(ctx).Sugar().Infof("Composer listens on %s", config.AppPort)
	return http.ListenAndServe(":"+config.AppPort, handlers.CORS(originsOk, headersOk, methodsOk)(c.NewHandler()))
}
