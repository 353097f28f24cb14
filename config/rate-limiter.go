package config

import "time"

// Rate limit configuration
type RateLimitConfig struct {
	Rate     int           // Tokens added per interval
	Burst    int           // Bucket capacity
	Interval time.Duration // Refill interval
}

// DefaultRateLimitConfig applies to the whole API
var DefaultRateLimitConfig = RateLimitConfig{
	Rate:     600,
	Burst:    120,
	Interval: time.Minute,
}

// SubmissionRateLimitConfig applies to registration and submission endpoints
var SubmissionRateLimitConfig = RateLimitConfig{
	Rate:     10,
	Burst:    5,
	Interval: time.Minute,
}
