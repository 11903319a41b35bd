package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "servly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRedisAddr = ""
	DefaultRedisDB   = 0

	DefaultJWTIssuer = "servly"

	DefaultBookingsServiceURL = "http://localhost:8081"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBookingLockTTL = 10 * time.Second

	DefaultPageSize         = 10
	DefaultPaginationLimit  = 100
	DefaultListingsPageSize = 12

	DefaultKafkaEnabled       = false
	DefaultKafkaBookingTopic  = "bookings.events"
	DefaultKafkaReviewTopic   = "reviews.events"
	DefaultKafkaRatingGroupID = "listings-ratings"
)
