package cleanups

import "os"

// AddRemoveFile registers removal of the file at path. Platform I/O
// errors surface unmodified through the normal failure path.
func (r *Registry) AddRemoveFile(path string) *Cleanup {
	c := r.Add(removeFile, path)
	c.SetName("remove " + path)
	return c
}

// AddRemoveTree registers recursive removal of the directory tree at
// path.
func (r *Registry) AddRemoveTree(path string) *Cleanup {
	c := r.Add(removeTree, path)
	c.SetName("remove tree " + path)
	return c
}

func removeFile(call Call) (any, error) {
	return nil, os.Remove(call.Args[0].(string))
}

func removeTree(call Call) (any, error) {
	return nil, os.RemoveAll(call.Args[0].(string))
}
