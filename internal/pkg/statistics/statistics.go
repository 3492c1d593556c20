package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/castboard/castboard/app/models"
	"github.com/castboard/castboard/internal/pkg/cache"
	"github.com/castboard/castboard/internal/pkg/database"
)

const (
	CacheKeyUsersTotal          = "statistics:users:total"
	CacheKeySubscriptionsActive = "statistics:subscriptions:active"
	CacheKeyBookingsUpcoming    = "statistics:bookings:upcoming"
	CacheExpiration             = 30 * time.Minute
)

// StatisticsData holds the platform numbers shown on the operator dashboard
type StatisticsData struct {
	TotalUsers          int `json:"total_users"`
	ActiveSubscriptions int `json:"active_subscriptions"`
	UpcomingBookings    int `json:"upcoming_bookings"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache checks whether the cache should be refreshed
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cache when the interval has passed
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Failed to update statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next read to refresh the cache
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recounts all statistics and stores them in the cache
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("Error counting total users: %v", err)
		return err
	}

	var activeSubscriptions int64
	if err := db.Model(&models.Billing{}).Where("status = ?", models.BillingStatusActive).Count(&activeSubscriptions).Error; err != nil {
		log.Printf("Error counting active subscriptions: %v", err)
		return err
	}

	var upcomingBookings int64
	if err := db.Model(&models.Booking{}).
		Where("starts_at > ? AND status IN ?", time.Now(), []string{models.BookingStatusRequested, models.BookingStatusConfirmed}).
		Count(&upcomingBookings).Error; err != nil {
		log.Printf("Error counting upcoming bookings: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total users: %v", err)
		return err
	}
	if err := cache.Set(CacheKeySubscriptionsActive, strconv.FormatInt(activeSubscriptions, 10), CacheExpiration); err != nil {
		log.Printf("Error caching active subscriptions: %v", err)
		return err
	}
	if err := cache.Set(CacheKeyBookingsUpcoming, strconv.FormatInt(upcomingBookings, 10), CacheExpiration); err != nil {
		log.Printf("Error caching upcoming bookings: %v", err)
		return err
	}

	return nil
}

// GetTotalUsers returns the total number of users from cache or database
func GetTotalUsers() int {
	return cachedCount(CacheKeyUsersTotal, func(count *int64) error {
		return database.GetDB().Model(&models.User{}).Count(count).Error
	})
}

// GetActiveSubscriptions returns the number of active subscriptions from
// cache or database
func GetActiveSubscriptions() int {
	return cachedCount(CacheKeySubscriptionsActive, func(count *int64) error {
		return database.GetDB().Model(&models.Billing{}).Where("status = ?", models.BillingStatusActive).Count(count).Error
	})
}

// GetUpcomingBookings returns the number of future bookings from cache or
// database
func GetUpcomingBookings() int {
	return cachedCount(CacheKeyBookingsUpcoming, func(count *int64) error {
		return database.GetDB().Model(&models.Booking{}).
			Where("starts_at > ? AND status IN ?", time.Now(), []string{models.BookingStatusRequested, models.BookingStatusConfirmed}).
			Count(count).Error
	})
}

func cachedCount(key string, load func(*int64) error) int {
	val, err := cache.Get(key)
	if err != nil {
		var count int64
		if err := load(&count); err != nil {
			log.Printf("Error counting %s: %v", key, err)
			return 0
		}

		if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
			log.Printf("Error caching %s: %v", key, err)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

// GetStatisticsData returns all statistics data as StatisticsData structure
func GetStatisticsData() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TotalUsers:          GetTotalUsers(),
		ActiveSubscriptions: GetActiveSubscriptions(),
		UpcomingBookings:    GetUpcomingBookings(),
	}
}
