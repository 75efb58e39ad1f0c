// Package cache implements ports.TemplateCache.
//
// MemoryTemplateCache keeps resolutions in a size-bounded LRU whose entries
// expire after a TTL; it serves a single process. RedisTemplateCache shares
// resolutions between instances and stores them as JSON with the same TTL.
// Both treat backend failures as misses so template resolution falls through
// to the database.
package cache
