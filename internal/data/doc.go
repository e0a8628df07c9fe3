// Package data feeds token streams into computations.
//
// A Vocab turns text into integer token ids: CharVocab maps each distinct
// character to an id, TikToken wraps an OpenAI BPE encoding. A
// SequentialArrayIterator cuts the resulting streams into (N, REC) batches
// for truncated back-propagation through time.
//
// Example:
//
//	vocab := data.NewCharVocab(text)
//	tokens, _ := vocab.Encode(text)
//	it, err := data.NewSequentialArrayIterator(data.ShiftedText(tokens), data.IteratorConfig{
//	    BatchSize: 32,
//	    TimeSteps: 50,
//	}, scope)
//	inputs := it.MakePlaceholders()
//	for batch, ok := it.Next(); ok; batch, ok = it.Next() {
//	    out, err := train.Call(ctx, batch["inp_txt"], batch["tgt_txt"])
//	}
package data
