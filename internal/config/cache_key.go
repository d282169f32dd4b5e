package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// DatasetKey returns the cache key for the parsed table of a workbook
func (r *CacheKeyStruct) DatasetKey(source string) string {
	return fmt.Sprintf("dashboard:dataset:%s", source)
}

var CacheKey = NewCacheKeyStruct()
