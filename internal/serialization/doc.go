// Package serialization implements the .symt block file: the on-disk form of
// one symmetry-blocked four-index tensor, laid out so that each irrep block
// can be read or rewritten in place.
//
//	Format Structure:
//	  [0x00  4 bytes: Magic "SYMT"]
//	  [0x04  4 bytes: Version (uint32 LE)]
//	  [0x08  4 bytes: Flags (uint32 LE)]
//	  [0x0C  4 bytes: Reserved]
//	  [0x10  8 bytes: Header Size (uint64 LE)]
//	  [0x18  8 bytes: Data Size (uint64 LE)]
//	  [0x20 32 bytes: SHA-256 of the data section, valid when FlagSealed is set]
//	  [0x40: Header: JSON metadata]
//	  [Block data: float64 LE, each irrep block 64-byte aligned]
//
// Blocks are addressed by irrep. Writing a block clears FlagSealed; Seal
// recomputes the checksum over the data section and sets it again.
//
// Example usage:
//
//	hdr := serialization.NewHeader("tau_ijab", 4, 0, rowtot, coltot)
//	f, err := serialization.Create("tau.symt", hdr)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	if err := f.WriteBlock(0, data); err != nil {
//	    return err
//	}
//	return f.Seal()
package serialization
