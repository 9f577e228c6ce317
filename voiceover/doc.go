// Package voiceover synchronizes narration with a scene.
//
// A Narrator speaks one block of text at a time through a speech Service
// and hands the script a Tracker while the block plays. The text may carry
// bookmarks,
//
//	Let <bookmark mark="A"/> a squared plus b squared ...
//
// and the script can wait for the moment the narration reaches one:
//
//	err := n.Say(ctx, text, func(tr *voiceover.Tracker) error {
//	    if err := tr.WaitUntilBookmark(ctx, "A"); err != nil {
//	        return err
//	    }
//	    return sm.PrepareNext(ctx)
//	})
//
// When the body returns, Say waits for whatever is left of the speech.
// Blocks are serialized through the narrator: a scene holds one speech
// service and narration never overlaps. Blocks must not nest.
package voiceover
