package mjpegavi

// bitmapInfoSize is the size of a BITMAPINFOHEADER.
const bitmapInfoSize = 40

// mainHeader is the AVIMAINHEADER payload of the 'avih' chunk.
type mainHeader struct {
	MicroSecPerFrame    uint32
	MaxBytesPerSec      uint32
	PaddingGranularity  uint32
	Flags               uint32
	TotalFrames         uint32
	InitialFrames       uint32
	Streams             uint32
	SuggestedBufferSize uint32
	Width               uint32
	Height              uint32
	Reserved            [4]uint32
}

// streamHeader is the AVISTREAMHEADER payload of the 'strh' chunk.
type streamHeader struct {
	Type                [4]byte
	Handler             [4]byte
	Flags               uint32
	Priority            uint16
	Language            uint16
	InitialFrames       uint32
	Scale               uint32
	Rate                uint32
	Start               uint32
	Length              uint32
	SuggestedBufferSize uint32
	Quality             uint32
	SampleSize          uint32
	Frame               [4]int16
}

// bitmapInfo is the BITMAPINFOHEADER payload of the 'strf' chunk.
type bitmapInfo struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   [4]byte
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// indexEntry is one 'idx1' record. Offset is relative to the 'movi' fourcc.
type indexEntry struct {
	ChunkID [4]byte
	Flags   uint32
	Offset  uint32
	Size    uint32
}
