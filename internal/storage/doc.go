// Package storage holds the key-value backends that keep per-device spam
// protection state: freecache in memory, a zstd snapshot file, or redis.
package storage
