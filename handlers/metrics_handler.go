package handlers

import (
	"github.com/gofiber/adaptor/v2"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lllkojlhuk/sushikub/models"
)

// Prometheus metrics
var (
	imageCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sushikub_image_cache_hits_total",
		Help: "Number of resize requests served from the derived-image cache",
	})

	imageCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sushikub_image_cache_misses_total",
		Help: "Number of resize requests that required a transcode",
	})

	imageTranscodeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sushikub_image_transcode_duration_seconds",
		Help:    "Time spent decoding, resizing and re-encoding images",
		Buckets: prometheus.DefBuckets,
	})

	totalProducts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sushikub_total_products",
		Help: "Total number of products",
	})

	totalCategories = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sushikub_total_categories",
		Help: "Total number of categories",
	})

	totalBanners = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sushikub_total_banners",
		Help: "Total number of banners",
	})

	totalUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sushikub_total_users",
		Help: "Total number of users",
	})
)

func init() {
	prometheus.MustRegister(imageCacheHits)
	prometheus.MustRegister(imageCacheMisses)
	prometheus.MustRegister(imageTranscodeDuration)
	prometheus.MustRegister(totalProducts)
	prometheus.MustRegister(totalCategories)
	prometheus.MustRegister(totalBanners)
	prometheus.MustRegister(totalUsers)
}

// UpdateMetrics refreshes the entity gauges from the database.
func UpdateMetrics() {
	if count, err := models.CountProducts(); err == nil {
		totalProducts.Set(float64(count))
	} else {
		log.Warnf("Failed to count products for metrics: %v", err)
	}

	if count, err := models.CountCategories(); err == nil {
		totalCategories.Set(float64(count))
	} else {
		log.Warnf("Failed to count categories for metrics: %v", err)
	}

	if count, err := models.CountBanners(); err == nil {
		totalBanners.Set(float64(count))
	} else {
		log.Warnf("Failed to count banners for metrics: %v", err)
	}

	if count, err := models.CountUsers(); err == nil {
		totalUsers.Set(float64(count))
	} else {
		log.Warnf("Failed to count users for metrics: %v", err)
	}
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() fiber.Handler {
	handler := adaptor.HTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		UpdateMetrics()
		return handler(c)
	}
}
