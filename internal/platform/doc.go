// Package platform papers over filesystem differences between operating
// systems. On Windows, Unix permission bits are not applied.
package platform
