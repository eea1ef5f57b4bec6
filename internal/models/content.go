package models

// VideoFile is a video discovered in the content library.
type VideoFile struct {
	// Name is the bare filename, the video's identity within the library.
	Name string
	// Path is the absolute filesystem path, used for probing and serving.
	Path string
}

// SlideImage is one rendered slide inside a presentation group.
type SlideImage struct {
	Name string
	Path string
	// RelPath is the path relative to the slide cache root
	// (<stem>/<filename>), in slash form; it becomes the serving URL suffix.
	RelPath string
}

// Presentation is a rendered deck: an ordered set of slide images sharing a
// stem. It exists only for expansion during ordering — presentations never
// appear in a playlist themselves, their slides do.
type Presentation struct {
	Stem   string
	Slides []SlideImage
}
