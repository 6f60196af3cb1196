// Package scene defines the named collection of triangles produced by the
// interactive shell and by script evaluation. A Scene owns clones of the
// triangles added to it; callers never share vertex state with it.
package scene
