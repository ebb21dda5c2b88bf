package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RegionBaselineKey returns the cache key for the full region baseline table of a country
func (r *CacheKeyStruct) RegionBaselineKey(country string) string {
	return fmt.Sprintf("baseline:%s:regions", country)
}

var CacheKey = NewCacheKeyStruct()
