// Package render prepares scalar fields for a GPU volume renderer: the 3D
// texture holding the samples, the sampler that reads it and the unit cube
// mesh that is placed with the field model matrix.
package render

import (
	"encoding/binary"
	"math"

	"github.com/aukilabs/gecko/scalarfield"
	"github.com/gogpu/gputypes"
)

const bytesPerSample = 4

// TextureDescriptor describes the texture a field is uploaded to.
type TextureDescriptor struct {
	Label         string
	Size          gputypes.Extent3D
	Dimension     gputypes.TextureDimension
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
	MipLevelCount uint32
	SampleCount   uint32
}

// SamplerDescriptor describes how the renderer samples the volume texture.
type SamplerDescriptor struct {
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	AddressModeW gputypes.AddressMode
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
}

// VolumeTexture is a field ready to be written to a 3D R32Float texture.
type VolumeTexture struct {
	Texture TextureDescriptor
	Layout  gputypes.TextureDataLayout
	Sampler SamplerDescriptor

	data []float32
}

// NewVolumeTexture describes the upload of f. The texture shares the field
// backing store: samples written to f after the call are part of the upload.
func NewVolumeTexture(f *scalarfield.Field[float32]) *VolumeTexture {
	return &VolumeTexture{
		Texture: TextureDescriptor{
			Label: "scalar_field",
			Size: gputypes.Extent3D{
				Width:              uint32(f.XSize()),
				Height:             uint32(f.YSize()),
				DepthOrArrayLayers: uint32(f.ZSize()),
			},
			Dimension:     gputypes.TextureDimension3D,
			Format:        gputypes.TextureFormatR32Float,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
			MipLevelCount: 1,
			SampleCount:   1,
		},
		Layout: gputypes.TextureDataLayout{
			BytesPerRow:  uint32(bytesPerSample * f.XSize()),
			RowsPerImage: uint32(f.YSize()),
		},
		Sampler: SamplerDescriptor{
			AddressModeU: gputypes.AddressModeClampToEdge,
			AddressModeV: gputypes.AddressModeClampToEdge,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    gputypes.FilterModeLinear,
			MinFilter:    gputypes.FilterModeLinear,
		},
		data: f.Data(),
	}
}

// Size returns the number of bytes of the upload.
func (t *VolumeTexture) Size() int {
	return bytesPerSample * len(t.data)
}

// Bytes returns the samples encoded as little-endian float32, x varying
// fastest.
func (t *VolumeTexture) Bytes() []byte {
	b := make([]byte, t.Size())
	for i, v := range t.data {
		binary.LittleEndian.PutUint32(b[bytesPerSample*i:], math.Float32bits(v))
	}
	return b
}
