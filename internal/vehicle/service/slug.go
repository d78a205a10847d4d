package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// GenerateSlug derives the URL identifier from year/make/model plus the last
// six characters of the VIN. Hand-entered records without a VIN fall back to a
// time-derived suffix so two same-model entries still get distinct slugs.
func GenerateSlug(year int, make, model, vin string) string {
	base := slug.Make(fmt.Sprintf("%d %s %s", year, make, model))
	return base + "-" + slugSuffix(vin)
}

func slugSuffix(vin string) string {
	vin = strings.TrimSpace(vin)
	if vin != "" {
		if len(vin) > 6 {
			vin = vin[len(vin)-6:]
		}
		return strings.ToLower(vin)
	}
	suffix := strconv.FormatInt(time.Now().UnixNano(), 36)
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return suffix
}
