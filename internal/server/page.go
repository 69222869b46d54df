package server

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Vocabulary Checker</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 2rem auto; }
label { display: block; margin-top: 1rem; }
input, textarea { width: 100%; }
.feedback { margin-top: 2rem; padding: 1rem; background: #f4f4f4; }
</style>
</head>
<body>
<h1>Vocabulary Checker</h1>
<form method="post" action="/">
<label for="sentence">Sentence</label>
<textarea id="sentence" name="sentence" rows="3">{{.Sentence}}</textarea>
<label for="target_word">Target word</label>
<input id="target_word" name="target_word" value="{{.TargetWord}}">
<label for="expected_pos">Expected part of speech (e.g. NOUN, VERB, ADJ)</label>
<input id="expected_pos" name="expected_pos" value="{{.ExpectedPOS}}">
<p><button type="submit">Check</button></p>
</form>
{{if .Feedback}}<div class="feedback">{{.Feedback}}</div>{{end}}
</body>
</html>
`
