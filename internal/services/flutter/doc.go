// Package flutter invokes the Flutter build toolchain and resolves its
// version-control revision. Command execution sits behind an Executor so the
// workflow can be tested without the SDK installed.
package flutter
