package handler

const mergePage = `<!doctype html>
<html lang="ru">
<head><meta charset="utf-8"><title>Объединить файлы</title></head>
<body>
<h1>Объединить файлы</h1>
<form method="post" action="/merge-files" enctype="multipart/form-data">
  <p><label>Выгрузка web <input type="file" name="web_file" accept=".xlsx" required></label></p>
  <p><label>Выгрузка bitrix <input type="file" name="bitrix_file" accept=".xlsx" required></label></p>
  <p><button type="submit">Создать отчет</button></p>
</form>
<p><a href="/format-file">Форматировать файл</a></p>
</body>
</html>
`

const formatPage = `<!doctype html>
<html lang="ru">
<head><meta charset="utf-8"><title>Форматировать файл</title></head>
<body>
<h1>Форматировать файл</h1>
<form method="post" action="/format-file" enctype="multipart/form-data">
  <p><label>Объединенная таблица <input type="file" name="format_file" accept=".xlsx" required></label></p>
  <p><button type="submit">Создать отчет</button></p>
</form>
<p><a href="/merge-files">Объединить файлы</a></p>
</body>
</html>
`
