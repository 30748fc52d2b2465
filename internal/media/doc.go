// Package media wraps the ffmpeg toolchain and WAV decoding for the analysis
// pipeline.
//
// Recordings are inspected with ffprobe, their audio track is extracted to a
// mono WAV file with ffmpeg, and video frames are streamed as grayscale
// rawvideo over a pipe. The frame stream implements motiondetect.FrameSource,
// with Seek respawning ffmpeg at the requested offset so the release search
// never decodes more of the recording than it needs.
package media
