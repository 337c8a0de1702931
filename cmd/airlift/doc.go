// Command airlift publishes Flutter framework bundles to the Airlift release
// service and manages the local project and credentials that publishing needs.
package main
