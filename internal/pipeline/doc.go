// Package pipeline runs the dice reader over a batch of videos.
//
// A Runner resolves output paths, guards each output directory with a file
// lock and hands every video to the configured StabilityStrategy. Both
// strategies share segmentation, die localization and pip counting; they
// differ only in how the settled frames are found:
//
//   - "window" scans the whole clip, picks the most static window, then
//     replays the clip and annotates every frame from that point on.
//   - "buffer" streams the clip once through a state machine over 1/4-scale
//     red masks and annotates only the frames of each settled run.
//
// Per-video failures are recorded on that video's Result and never stop the
// rest of the batch.
package pipeline
