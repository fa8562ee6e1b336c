// Package filebase provides a safe, reusable wrapper around a single
// operating-system file: opening with a configurable access mode,
// whole-file advisory locking with bounded retry, detection of the path
// being replaced underneath an open descriptor, and memory-mapped views
// of file regions.
//
// It is intended as the shared foundation for higher-level readers and
// writers of structured files (object caches, bitcode stores) so that
// locking and mapping semantics live in exactly one place.
//
// Key properties:
//   - The File exclusively owns its descriptor and releases it on Close
//   - Advisory locks (flock) are whole-file; shared for reads, exclusive
//     for writes, with a nonblocking retry loop for contended locks
//   - A stale descriptor (path removed and recreated by another process)
//     is detected by device+inode comparison and transparently reopened
//     before a fresh lock is taken
//   - Mapped views returned by CreateMap are owned by the caller and
//     remain valid after the File is closed, per POSIX mmap semantics
//
// Basic usage:
//
//	f, err := filebase.OpenFile("cache.bin", filebase.ReadOnly, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Release()
//
//	if err := f.LockDefault(filebase.ReadLock); err != nil {
//	    log.Fatal(err)
//	}
//
//	size, err := f.Size()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m, err := f.CreateMap(0, int(size), true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	parse(m.Data())
//
// A File is not safe for concurrent use by multiple goroutines without
// external synchronization. Cross-process coordination is exactly what
// Lock and Unlock provide.
package filebase
