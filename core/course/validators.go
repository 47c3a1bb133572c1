package course

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/diplomasi/admin/core"
)

var (
	videoURLTag  = "videourl"
	videoURLText = "video lessons require a video URL"
)

// InitValidators registers the course validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(lessonStructValidation, LessonData{})
	core.RegisterCustomTranslation(validate, translator, videoURLTag, videoURLText)
}

// lessonStructValidation checks that a video lesson carries its video URL.
func lessonStructValidation(sl validator.StructLevel) {
	lsn, ok := sl.Current().Interface().(LessonData)
	if !ok {
		return
	}
	if lsn.Type == LessonVideo && lsn.VideoURL == "" {
		sl.ReportError(lsn.VideoURL, "videoUrl", "VideoURL", videoURLTag, "")
	}
}
