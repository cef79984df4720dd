package health_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/failover"
	"github.com/jonwraymond/failover/health"
)

func ExampleNewBreakerChecker() {
	registry := failover.NewRegistry(failover.BreakerConfig{
		FailureThreshold: 1,
		Cooldown:         time.Minute,
	})

	checker := health.NewBreakerChecker(registry, "gpt-4")
	result := checker.Check(context.Background())
	fmt.Println("before failures:", result.Status)

	registry.For("gpt-4").RecordFailure()

	result = checker.Check(context.Background())
	fmt.Println("after failures:", result.Status)
	// Output:
	// before failures: healthy
	// after failures: unhealthy
}

func ExampleAggregator_CheckAll() {
	registry := failover.NewRegistry(failover.BreakerConfig{
		FailureThreshold: 1,
		Cooldown:         time.Minute,
	})
	registry.For("secondary").RecordFailure()

	agg := health.NewAggregator()
	health.RegisterBackends(agg, registry, "primary", "secondary")

	results := agg.CheckAll(context.Background())
	fmt.Println("primary:", results["primary"].Status)
	fmt.Println("secondary:", results["secondary"].Status)
	fmt.Println("overall:", agg.OverallStatus(results))
	// Output:
	// primary: healthy
	// secondary: unhealthy
	// overall: unhealthy
}

func ExampleNewCheckerFunc() {
	agg := health.NewAggregator()

	agg.Register("upstream", health.NewCheckerFunc("upstream", func(ctx context.Context) health.Result {
		// Any dependency can report health, not only breakers.
		return health.Healthy("reachable")
	}))

	result, err := agg.Check(context.Background(), "upstream")
	if err == nil {
		fmt.Println(result.Status, "-", result.Message)
	}
	// Output:
	// healthy - reachable
}
