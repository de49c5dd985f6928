// Package cache stores synthesized audio so a looping host name is only
// synthesized once per voice and prosody. It has an in-memory LRU level and
// an optional compressed disk level that survives restarts.
package cache
