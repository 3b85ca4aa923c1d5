package eventsink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/logging"
	"github.com/luck-28/FullSail-CLMM-SC/internal/platform/resilience"
	"github.com/luck-28/FullSail-CLMM-SC/pool"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNS publishes every pool event to a single SNS topic as a JSON body
// with one "event_type" message attribute, so subscribers can filter by
// event type without deserializing the body (spec.md section 6's "ordering
// matches operation ordering" only constrains this sink's Emit call
// order, which the caller — a single-writer Pool — already provides).
type SNS struct {
	client         *sns.Client
	topicARN       string
	circuitBreaker *resilience.CircuitBreaker
	retryConfig    resilience.RetryConfig
	logger         *logging.Logger
}

// SNSConfig configures an SNS sink.
type SNSConfig struct {
	AWSConfig      awssdk.Config
	TopicARN       string
	Logger         *logging.Logger
	RetryConfig    *resilience.RetryConfig
	CircuitBreaker *resilience.CircuitBreaker
}

// NewSNS builds an SNS sink against an already-loaded AWS config (see
// internal/platform/aws.LoadAWSConfig).
func NewSNS(cfg SNSConfig) (*SNS, error) {
	if cfg.TopicARN == "" {
		return nil, fmt.Errorf("eventsink: SNS topic ARN is required")
	}

	retryConfig := resilience.DefaultRetryConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}

	breaker := cfg.CircuitBreaker
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             "sns-event-sink",
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
		})
	}

	return &SNS{
		client:         sns.NewFromConfig(cfg.AWSConfig),
		topicARN:       cfg.TopicARN,
		circuitBreaker: breaker,
		retryConfig:    retryConfig,
		logger:         cfg.Logger,
	}, nil
}

// Emit publishes ev as a JSON message with circuit breaker and retry.
func (s *SNS) Emit(ctx context.Context, ev pool.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("eventsink: failed to marshal event: %w", err)
	}

	attrs := map[string]string{"event_type": eventTypeName(ev)}

	err = s.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return resilience.Retry(ctx, s.retryConfig, func(ctx context.Context) error {
			return s.publish(ctx, string(payload), attrs)
		})
	})

	if err != nil && s.logger != nil {
		s.logger.Info("sns event publish failed", "error", err.Error(), "event_type", attrs["event_type"])
	}
	return err
}

func (s *SNS) publish(ctx context.Context, message string, attributes map[string]string) error {
	messageAttributes := make(map[string]types.MessageAttributeValue, len(attributes))
	for k, v := range attributes {
		messageAttributes[k] = types.MessageAttributeValue{
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String(v),
		}
	}

	_, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          awssdk.String(s.topicARN),
		Message:           awssdk.String(message),
		MessageAttributes: messageAttributes,
	})
	if err != nil {
		return fmt.Errorf("eventsink: SNS publish failed: %w", err)
	}
	return nil
}

var _ pool.EventSink = (*SNS)(nil)
