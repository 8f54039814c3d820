// Package serialization stores named float64 tensors in the SafeTensors
// format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON object, tensor name -> {dtype, shape, data_offsets}]
//	  [Tensor data: raw little-endian bytes]
//
// Tensors are written in alphabetical order by name. Free-form string
// metadata travels under the "__metadata__" key; the writer adds a SHA-256
// checksum of the data section there and the reader verifies it.
//
// Example usage:
//
//	tensors := map[string]*serialization.Tensor{
//	    "layers.0.weight": serialization.FromMatrix(w),
//	    "layers.0.bias":   serialization.FromVector(b),
//	}
//	if err := serialization.WriteFile("model.safetensors", tensors, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	tensors, metadata, err := serialization.ReadFile("model.safetensors")
package serialization
