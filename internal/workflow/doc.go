// Package workflow drives a publish from precondition checks through build,
// confirmation, upload, and activation. The publisher owns the ordering
// guarantees: nothing is created remotely before the build succeeds, and a
// release only becomes active after its artifact upload completes.
package workflow
