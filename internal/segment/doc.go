// Package segment splits text into the symbols that are spoken and
// highlighted one at a time.
package segment
