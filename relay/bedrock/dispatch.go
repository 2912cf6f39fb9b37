package bedrock

import (
	"context"
	"math/rand"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/aws/smithy-go"

	"github.com/openchat-labs/bedrock-relay/common/config"
	"github.com/openchat-labs/bedrock-relay/common/logger"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// ErrThrottled indicates the provider rejected the call with a rate-limit
// signal. It is the only error class the dispatcher retries.
var ErrThrottled = errors.New("bedrock is throttling requests")

const throttlingErrorCode = "ThrottlingException"

// classifyError maps a provider error onto the dispatcher's taxonomy:
// throttling becomes ErrThrottled, everything else is wrapped with the
// operation name and propagated as-is.
func classifyError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == throttlingErrorCode {
		return errors.Wrapf(ErrThrottled, "%s: %s", op, apiErr.ErrorMessage())
	}
	return errors.Wrap(err, op)
}

// RetryPolicy bounds a dispatch: Tries attempts in total, the first retry
// after Delay, each subsequent retry doubling it, plus uniform random jitter
// in [0, Jitter] per sleep. There is no overall deadline; the attempt count
// is the bound.
type RetryPolicy struct {
	Tries  int
	Delay  time.Duration
	Jitter time.Duration
}

// DefaultRetryPolicy mirrors the process configuration.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Tries:  config.DispatchMaxTries,
		Delay:  config.DispatchRetryDelay,
		Jitter: config.DispatchRetryJitter,
	}
}

// Dispatcher invokes the Bedrock runtime, classifying provider errors and
// retrying throttled calls with exponential backoff. It holds no per-request
// state and is safe for concurrent use.
type Dispatcher struct {
	runtime Runtime
	policy  RetryPolicy

	// sleep is swapped out by tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDispatcher wraps a runtime client with the default retry policy.
func NewDispatcher(runtime Runtime) *Dispatcher {
	return NewDispatcherWithPolicy(runtime, DefaultRetryPolicy())
}

// NewDispatcherWithPolicy wraps a runtime client with an explicit policy.
func NewDispatcherWithPolicy(runtime Runtime, policy RetryPolicy) *Dispatcher {
	if policy.Tries < 1 {
		policy.Tries = 1
	}
	return &Dispatcher{
		runtime: runtime,
		policy:  policy,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "dispatch interrupted")
	case <-timer.C:
		return nil
	}
}

// withRetry runs call, retrying only throttled attempts until the policy's
// attempt count is exhausted. Attempts are strictly sequential.
func (d *Dispatcher) withRetry(ctx context.Context, op string, call func(ctx context.Context) error) error {
	delay := d.policy.Delay

	for attempt := 1; ; attempt++ {
		err := call(ctx)
		if err == nil {
			dispatchTotal.WithLabelValues(op, outcomeSuccess).Inc()
			return nil
		}

		err = classifyError(op, err)
		if !errors.Is(err, ErrThrottled) {
			dispatchTotal.WithLabelValues(op, outcomeError).Inc()
			return err
		}
		dispatchTotal.WithLabelValues(op, outcomeThrottled).Inc()

		if attempt >= d.policy.Tries {
			return err
		}

		wait := delay
		if d.policy.Jitter > 0 {
			wait += time.Duration(rand.Int63n(int64(d.policy.Jitter) + 1))
		}
		logger.Logger.Warn("bedrock throttled, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait))

		if err := d.sleep(ctx, wait); err != nil {
			return err
		}
		delay *= 2
	}
}

// Converse performs a non-streaming inference call.
func (d *Dispatcher) Converse(ctx context.Context, req *bedrockruntime.ConverseStreamInput) (*bedrockruntime.ConverseOutput, error) {
	var out *bedrockruntime.ConverseOutput
	err := d.withRetry(ctx, "Converse", func(ctx context.Context) error {
		var callErr error
		out, callErr = d.runtime.Converse(ctx, asConverseInput(req))
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConverseStream performs a streaming inference call. The caller owns the
// returned event stream.
func (d *Dispatcher) ConverseStream(ctx context.Context, req *bedrockruntime.ConverseStreamInput) (*bedrockruntime.ConverseStreamOutput, error) {
	var out *bedrockruntime.ConverseStreamOutput
	err := d.withRetry(ctx, "ConverseStream", func(ctx context.Context) error {
		var callErr error
		out, callErr = d.runtime.ConverseStream(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
