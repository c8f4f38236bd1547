package properties

import (
	"os"
	"strconv"
)

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

// DefaultTargetCRS is used when a reprojection target is not given on the
// command line. UTM zone 33N matches the bulk of our archive.
func DefaultTargetCRS() string {
	if crs := os.Getenv("DEFAULT_TARGET_CRS"); crs != "" {
		return crs
	}
	return "EPSG:32633"
}

func Workers() int {
	if v := os.Getenv("PIPELINE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 4
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
