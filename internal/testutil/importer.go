package testutil

import "github.com/sassafras-chain/sassafras/consensus"

// RecordingImporter is a fake consensus.Importer that remembers every
// ImportParams it was handed, for assertions in BlockImport tests.
type RecordingImporter struct {
	Imported []*consensus.ImportParams
	Err      error
}

func (r *RecordingImporter) ImportBlock(params *consensus.ImportParams) error {
	if r.Err != nil {
		return r.Err
	}
	r.Imported = append(r.Imported, params)
	return nil
}
