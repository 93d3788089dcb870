package mp4probe

import "github.com/Eyevinn/mp4ff/mp4"

// sampleEntryCodecs maps stsd sample entry types to codec names.
var sampleEntryCodecs = map[string]string{
	"avc1": "h264",
	"avc3": "h264",
	"hvc1": "hevc",
	"hev1": "hevc",
	"av01": "av1",
	"vp09": "vp9",
	"vp08": "vp8",
	"mp4v": "mpeg4",
}

// trackCodec returns the codec of a video track, or "" when unknown.
func trackCodec(trak *mp4.TrakBox) string {
	if trak.Mdia == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return ""
	}
	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		if codec, ok := sampleEntryCodecs[child.Type()]; ok {
			return codec
		}
	}
	return ""
}
