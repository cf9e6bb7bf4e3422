package registry

// Evaluate applies the threshold/count retention policy to images sorted
// newest first. Once the repository holds at least threshold images the
// count oldest images are selected; a count larger than the repository
// selects everything.
func Evaluate(images []Image, threshold, count uint64) Decision {
	total := uint64(len(images))
	if total < threshold {
		return Decision{}
	}

	n := count
	if n > total {
		n = total
	}

	victims := make([]Image, n)
	copy(victims, images[total-n:])

	return Decision{Act: true, Victims: victims}
}
