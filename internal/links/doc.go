// Package links turns a video identifier into the list of directly playable
// MP4 renditions for that video.
//
// A request flows through four steps: the body is decoded, the id is
// validated, the manifest is resolved through a Resolver, and the selection
// policy keeps only MP4 renditions that carry both audio and video. Every
// path ends in an Outcome, which carries the HTTP status code and the JSON
// payload that entry points write back to the caller.
package links
