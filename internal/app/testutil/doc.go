// Package testutil provides test doubles and fixtures shared by the a2t packages.
//
// It contains three components:
//
// 1. Mock transcriber (mock_transcriber.go):
//   - MockTranscriber: testify/mock implementation of api.Transcriber that also
//     records the uploaded payload and call history
//
// 2. Resource-tracking doubles (tracking.go):
//   - TrackingReadCloser: counts Close calls on an upload handle
//   - TrackingOpener: api.Opener returning TrackingReadClosers
//
// 3. Fixtures (fixtures.go):
//   - Sample transcripts and raw OpenAI verbose_json responses
//   - Helpers writing small audio files to a test directory
//
// # Usage Examples
//
//	opener := testutil.NewTrackingOpener()
//	transcriber := testutil.NewMockTranscriber()
//	transcriber.On("Transcribe", mock.Anything, "voice.mp3", mock.Anything).
//		Return(testutil.SampleTranscript(), nil)
//
//	_, err := api.TranscribeFile(ctx, transcriber, opener.Open, path)
//	assert.Equal(t, 1, opener.Last().CloseCount())
package testutil
