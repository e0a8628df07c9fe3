// Package checkpoint saves and restores transformer variables.
//
// File layout:
//
//	0x00  magic "AXGR"
//	0x04  format version (uint32, little endian)
//	0x08  flags (uint32)
//	0x0C  reserved
//	0x10  JSON header size (uint64)
//	0x18  data section size (uint64)
//	0x20  SHA-256 of the data section (32 bytes)
//	0x40  JSON header, zero padded to a multiple of 64 bytes
//	...   float32 little endian values, one block per variable
//
// The header lists every variable with its axes, so values are restored by
// axis name even when the variable's axes are ordered differently.
//
// Checkpoints live in a Store: DirStore keeps them in a local directory,
// GCSStore in a Google Cloud Storage bucket.
package checkpoint
