// Package registry lists and cleans Amazon ECR repositories.
//
// Listings are drained page by page into one slice, then put in canonical
// order: repositories by name, images newest first. CleanRepository applies
// a threshold/count retention policy to the image list and deletes the
// selected images by digest with BatchDeleteImage.
package registry
